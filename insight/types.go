// Package insight produces the short list of strategic recommendations shown on the
// booking preview step. Generation never fails from the caller's point of view: any
// upstream problem yields the fixed fallback list.
package insight

import (
	"context"
	"errors"

	"github.com/tbxark/leadflow/types"
)

// ErrNoInsights is returned by generators when the model answered with nothing usable.
var ErrNoInsights = errors.New("no usable insights in model response")

// Fallback is served whenever generation cannot produce a usable list.
var Fallback = types.InsightList{
	"Optimize high-conversion landing pages",
	"Automate lead nurturing systems",
	"Scale premium visual content",
}

// Request carries the lead fields the recommendations are derived from.
type Request struct {
	BusinessName string
	Goals        string
}

// Generator asks an upstream model for insights. Implementations may fail; Client absorbs it.
type Generator interface {
	GenerateInsights(ctx context.Context, req Request) (types.InsightList, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (types.InsightList, error)

func (f GeneratorFunc) GenerateInsights(ctx context.Context, req Request) (types.InsightList, error) {
	return f(ctx, req)
}
