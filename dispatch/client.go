package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single send. On expiry the attempt is reported as failed.
const DefaultTimeout = 20 * time.Second

// Client wraps a Sender and converts every outcome into a Result.
type Client struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
}

type ClientOption func(*Client)

// WithTimeout bounds each send; zero or negative disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(sender Sender, opts ...ClientOption) *Client {
	c := &Client{
		sender:  sender,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  otel.Tracer("github.com/tbxark/leadflow/dispatch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send makes exactly one delivery attempt.
func (c *Client) Send(ctx context.Context, payload Payload) (result Result) {
	ctx, span := c.tracer.Start(ctx, "dispatch.send",
		trace.WithAttributes(attribute.String("lead.from_email", payload.FromEmail)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			result = c.fail(span, payload, fmt.Errorf("panic in email sender: %v", r))
		}
	}()

	if c.sender == nil {
		return c.fail(span, payload, fmt.Errorf("no email sender configured"))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.sender.Send(ctx, payload); err != nil {
		return c.fail(span, payload, fmt.Errorf("send email: %w", err))
	}
	c.logger.Info("Lead dispatched", "from_email", payload.FromEmail)
	return Result{}
}

func (c *Client) fail(span trace.Span, payload Payload, err error) Result {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error("Lead dispatch failed", "from_email", payload.FromEmail, "error", err)
	return Result{Err: err}
}
