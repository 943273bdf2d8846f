// Package config resolves deployment settings and credentials from the environment.
//
// No credential has a default: the AI key and the email provider triple must be
// injected at deploy time and can be rotated without a rebuild.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tbxark/leadflow/dispatch"
	"github.com/tbxark/leadflow/types"
)

// Prefix is prepended to every variable name.
const Prefix = "LEADFLOW_"

var ErrMissingAIKey = errors.New("AI API key is not set")

// AIStrategy selects how insights are requested from the model.
type AIStrategy string

const (
	StrategyPrompt   AIStrategy = "prompt"
	StrategyTool     AIStrategy = "tool"
	StrategyFailback AIStrategy = "failback"
)

type AIConfig struct {
	APIKey      string        `env:"API_KEY"`
	BaseURL     string        `env:"BASE_URL"    envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model       string        `env:"MODEL"       envDefault:"gemini-2.5-flash"`
	Temperature float32       `env:"TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"TIMEOUT"     envDefault:"15s"`
	Strategy    AIStrategy    `env:"STRATEGY"    envDefault:"prompt"`
	Brand       string        `env:"BRAND"       envDefault:"Vector by Volta"`
}

type EmailConfig struct {
	ServiceID  string        `env:"SERVICE_ID"`
	TemplateID string        `env:"TEMPLATE_ID"`
	PublicKey  string        `env:"PUBLIC_KEY"`
	PrivateKey string        `env:"PRIVATE_KEY"`
	BaseURL    string        `env:"BASE_URL" envDefault:"https://api.emailjs.com"`
	Timeout    time.Duration `env:"TIMEOUT"  envDefault:"20s"`
}

// Credentials returns the provider triple carried by this config.
func (c EmailConfig) Credentials() dispatch.Credentials {
	return dispatch.Credentials{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		PublicKey:  c.PublicKey,
		PrivateKey: c.PrivateKey,
	}
}

type Config struct {
	AI       AIConfig    `envPrefix:"AI_"`
	Email    EmailConfig `envPrefix:"EMAILJS_"`
	Slots    []string    `env:"SLOTS" envSeparator:"|"`
	LogLevel slog.Level  `env:"LOG_LEVEL" envDefault:"INFO"`
}

// BookingSlots returns the configured slot labels, or the default set.
func (c Config) BookingSlots() []types.Slot {
	if len(c.Slots) == 0 {
		return append([]types.Slot(nil), types.DefaultSlots...)
	}
	slots := make([]types.Slot, 0, len(c.Slots))
	for _, s := range c.Slots {
		slots = append(slots, types.Slot(s))
	}
	return slots
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFromMap parses vars instead of the process environment. Keys include the prefix.
func LoadFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.AI.Strategy {
	case StrategyPrompt, StrategyTool, StrategyFailback:
	default:
		return Config{}, fmt.Errorf("parse env: unknown AI strategy %q", cfg.AI.Strategy)
	}
	return cfg, nil
}

// EnvCredentials re-reads the environment on every lookup.
type EnvCredentials struct {
	load func() (Config, error)
}

var _ dispatch.CredentialsProvider = EnvCredentials{}

func NewEnvCredentials() EnvCredentials {
	return EnvCredentials{load: Load}
}

// NewMapCredentials reads from a fixed map; used by tests and embedded hosts.
func NewMapCredentials(vars map[string]string) EnvCredentials {
	return EnvCredentials{load: func() (Config, error) { return LoadFromMap(vars) }}
}

func (e EnvCredentials) config() (Config, error) {
	if e.load == nil {
		return Load()
	}
	return e.load()
}

func (e EnvCredentials) EmailCredentials(ctx context.Context) (dispatch.Credentials, error) {
	cfg, err := e.config()
	if err != nil {
		return dispatch.Credentials{}, err
	}
	creds := cfg.Email.Credentials()
	if !creds.Complete() {
		return dispatch.Credentials{}, dispatch.ErrMissingCredentials
	}
	return creds, nil
}

// AIAPIKey returns the key the chat model authenticates with.
func (e EnvCredentials) AIAPIKey(ctx context.Context) (string, error) {
	cfg, err := e.config()
	if err != nil {
		return "", err
	}
	if cfg.AI.APIKey == "" {
		return "", ErrMissingAIKey
	}
	return cfg.AI.APIKey, nil
}
