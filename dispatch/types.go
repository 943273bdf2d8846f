// Package dispatch delivers captured leads to the business through a transactional
// email provider. Every failure is reported as a Result; nothing is retried here.
package dispatch

import (
	"context"
	"errors"
)

var (
	// ErrMissingCredentials indicates the service/template/public-key triple is incomplete.
	ErrMissingCredentials = errors.New("email provider credentials are not set")
	// ErrProviderRejected indicates the provider answered with a non-2xx status.
	ErrProviderRejected = errors.New("email provider rejected the request")
)

// Payload is what the business receives for one lead.
type Payload struct {
	FromName  string
	FromEmail string
	Message   string
}

// TemplateParams maps the payload onto the provider template variables.
func (p Payload) TemplateParams() map[string]string {
	return map[string]string{
		"from_name":  p.FromName,
		"from_email": p.FromEmail,
		"message":    p.Message,
	}
}

// Result is the outcome of one send attempt.
type Result struct {
	Err error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Sender performs a single delivery attempt.
type Sender interface {
	Send(ctx context.Context, payload Payload) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, payload Payload) error

func (f SenderFunc) Send(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// Credentials identifies the provider account and template. PrivateKey is optional.
type Credentials struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

func (c Credentials) Complete() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// CredentialsProvider resolves credentials at send time so they can rotate without a restart.
type CredentialsProvider interface {
	EmailCredentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials serves a fixed triple.
type StaticCredentials Credentials

func (s StaticCredentials) EmailCredentials(ctx context.Context) (Credentials, error) {
	return Credentials(s), nil
}
