package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbxark/leadflow/types"
)

// DefaultTimeout bounds a single generation. On expiry the fallback list is served.
const DefaultTimeout = 15 * time.Second

// Client is the only entry point the booking flow uses for insights.
type Client struct {
	generator Generator
	fallback  types.InsightList
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
}

type ClientOption func(*Client)

// WithTimeout bounds each generation; zero or negative disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFallback replaces the list served on failure. Empty lists are ignored.
func WithFallback(list types.InsightList) ClientOption {
	return func(c *Client) {
		if len(list) > 0 {
			c.fallback = list.Clone()
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(generator Generator, opts ...ClientOption) *Client {
	c := &Client{
		generator: generator,
		fallback:  Fallback.Clone(),
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		tracer:    otel.Tracer("github.com/tbxark/leadflow/insight"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns a non-empty insight list for the lead. It never fails.
func (c *Client) Generate(ctx context.Context, businessName, goals string) (insights types.InsightList) {
	ctx = callbacks.EnsureRunInfo(ctx, "InsightClient", "Insight")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"business_name": businessName,
		"goals":         goals,
	})
	ctx, span := c.tracer.Start(ctx, "insight.generate",
		trace.WithAttributes(attribute.String("lead.business_name", businessName)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			insights = c.useFallback(ctx, span, fmt.Errorf("panic in insight generator: %v", r))
		}
	}()

	if c.generator == nil {
		return c.useFallback(ctx, span, fmt.Errorf("no insight generator configured"))
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.generator.GenerateInsights(callCtx, Request{BusinessName: businessName, Goals: goals})
	if err == nil {
		result = cleanInsights(result)
		if len(result) == 0 {
			err = ErrNoInsights
		}
	}
	if err != nil {
		return c.useFallback(ctx, span, err)
	}

	span.SetAttributes(attribute.Int("insight.count", len(result)), attribute.Bool("insight.fallback", false))
	callbacks.OnEnd(ctx, map[string]any{"insights": result})
	c.logger.Debug("Generated insights", "business_name", businessName, "count", len(result))
	return result
}

func (c *Client) useFallback(ctx context.Context, span trace.Span, err error) types.InsightList {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool("insight.fallback", true))
	callbacks.OnError(ctx, err)
	c.logger.Warn("Insight generation failed, serving fallback", "error", err)
	return c.fallback.Clone()
}
