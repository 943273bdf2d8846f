package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/leadflow/config"
	"github.com/tbxark/leadflow/dispatch"
	"github.com/tbxark/leadflow/flow"
	"github.com/tbxark/leadflow/insight"
	"github.com/tbxark/leadflow/types"
)

type app struct {
	registry *flow.Registry
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	creds := config.NewEnvCredentials()

	generator, err := newGenerator(ctx, cfg, creds)
	if err != nil {
		return nil, err
	}
	insights := insight.NewClient(generator, insight.WithTimeout(cfg.AI.Timeout))

	sender := dispatch.NewEmailJSSender(creds, dispatch.WithBaseURL(cfg.Email.BaseURL))
	mailer := dispatch.NewClient(sender, dispatch.WithTimeout(cfg.Email.Timeout))

	slots := cfg.BookingSlots()
	return &app{
		registry: flow.NewRegistry(
			func() *flow.Wizard { return flow.NewWizard(insights, mailer, flow.WithSlots(slots)) },
			func() *flow.Contact { return flow.NewContact(mailer) },
		),
	}, nil
}

func newGenerator(ctx context.Context, cfg config.Config, creds config.EnvCredentials) (insight.Generator, error) {
	apiKey, err := creds.AIAPIKey(ctx)
	if err != nil {
		// Without a key every request falls back to the fixed insights.
		slog.Warn("AI generation disabled", "error", err)
		return insight.GeneratorFunc(func(ctx context.Context, req insight.Request) (types.InsightList, error) {
			return nil, err
		}), nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	opts := []insight.GeneratorOption{
		insight.WithBrand(cfg.AI.Brand),
		insight.WithModel(cfg.AI.Model),
		insight.WithTemperature(cfg.AI.Temperature),
	}
	var chatModel model.ToolCallingChatModel = cm
	switch cfg.AI.Strategy {
	case config.StrategyTool, config.StrategyFailback:
		tool, err := insight.NewToolBasedGenerator(chatModel, opts...)
		if err != nil {
			return nil, err
		}
		if cfg.AI.Strategy == config.StrategyTool {
			return tool, nil
		}
		return insight.NewFailbackGenerator(tool, insight.NewPromptGenerator(chatModel, opts...)), nil
	default:
		return insight.NewPromptGenerator(chatModel, opts...), nil
	}
}
