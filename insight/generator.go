package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/leadflow/structured"
	"github.com/tbxark/leadflow/types"
)

const (
	suggestMovesToolName        = "suggest_strategic_moves"
	suggestMovesToolDescription = "Return the strategic moves recommended for the business."
)

type generatorOptions struct {
	brand          string
	count          int
	model          string
	temperature    float32
	promptTemplate string
}

type GeneratorOption func(*generatorOptions)

// WithBrand sets the agency name the model speaks for.
func WithBrand(brand string) GeneratorOption {
	return func(o *generatorOptions) {
		o.brand = brand
	}
}

// WithCount sets how many moves are requested.
func WithCount(n int) GeneratorOption {
	return func(o *generatorOptions) {
		o.count = n
	}
}

// WithModel overrides the model identifier sent with each request.
func WithModel(name string) GeneratorOption {
	return func(o *generatorOptions) {
		o.model = name
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) GeneratorOption {
	return func(o *generatorOptions) {
		o.temperature = t
	}
}

// WithPromptTemplate replaces the prompt template. See DefaultPromptTemplate for placeholders.
func WithPromptTemplate(tpl string) GeneratorOption {
	return func(o *generatorOptions) {
		o.promptTemplate = tpl
	}
}

func newGeneratorOptions(defaultTemplate string, opts []GeneratorOption) generatorOptions {
	options := generatorOptions{
		brand:          DefaultBrand,
		count:          DefaultCount,
		temperature:    DefaultTemperature,
		promptTemplate: defaultTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.count <= 0 {
		options.count = DefaultCount
	}
	if options.promptTemplate == "" {
		options.promptTemplate = defaultTemplate
	}
	return options
}

func (o generatorOptions) modelOptions() []model.Option {
	opts := []model.Option{model.WithTemperature(o.temperature)}
	if o.model != "" {
		opts = append(opts, model.WithModel(o.model))
	}
	return opts
}

// insightsEnvelope is the object shape some models return despite being asked for an array.
type insightsEnvelope struct {
	Insights []string `json:"insights"`
	Moves    []string `json:"moves"`
}

// insightsPayload decodes either a JSON array of strings or an object wrapping one.
type insightsPayload []string

func (p *insightsPayload) UnmarshalJSON(data []byte) error {
	var list []string
	if err := sonic.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}
	var env insightsEnvelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("expected a JSON array of strings: %w", err)
	}
	if len(env.Insights) > 0 {
		*p = env.Insights
	} else {
		*p = env.Moves
	}
	return nil
}

// PromptGenerator asks for a JSON array in the reply text.
type PromptGenerator struct {
	chain *structured.Chain[Request, insightsPayload]
	opts  generatorOptions
}

func NewPromptGenerator(chatModel model.ToolCallingChatModel, opts ...GeneratorOption) *PromptGenerator {
	g := &PromptGenerator{opts: newGeneratorOptions(DefaultPromptTemplate, opts)}
	g.chain = structured.NewTextChain[Request, insightsPayload](chatModel, g.buildPrompt, g.opts.modelOptions()...)
	return g
}

func (g *PromptGenerator) GenerateInsights(ctx context.Context, req Request) (types.InsightList, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	insights := cleanInsights(*result)
	if len(insights) == 0 {
		return nil, ErrNoInsights
	}
	return insights, nil
}

func (g *PromptGenerator) buildPrompt(ctx context.Context, req Request) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.UserMessage(renderPrompt(g.opts.promptTemplate, promptData{
			brand:    g.opts.brand,
			business: req.BusinessName,
			goals:    req.Goals,
			count:    g.opts.count,
		})),
	}, nil
}

type suggestMovesInput struct {
	Moves []string `json:"moves" jsonschema:"required,description=Concise strategic recommendations for the business"`
}

// ToolBasedGenerator forces the model to answer through a tool call.
type ToolBasedGenerator struct {
	chain *structured.Chain[Request, suggestMovesInput]
	opts  generatorOptions
}

func NewToolBasedGenerator(chatModel model.ToolCallingChatModel, opts ...GeneratorOption) (*ToolBasedGenerator, error) {
	g := &ToolBasedGenerator{opts: newGeneratorOptions(DefaultToolPromptTemplate, opts)}
	chain, err := structured.NewChain[Request, suggestMovesInput](
		chatModel,
		g.buildPrompt,
		suggestMovesToolName,
		suggestMovesToolDescription,
		g.opts.modelOptions()...,
	)
	if err != nil {
		return nil, err
	}
	g.chain = chain
	return g, nil
}

func (g *ToolBasedGenerator) GenerateInsights(ctx context.Context, req Request) (types.InsightList, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	insights := cleanInsights(result.Moves)
	if len(insights) == 0 {
		return nil, ErrNoInsights
	}
	return insights, nil
}

func (g *ToolBasedGenerator) buildPrompt(ctx context.Context, req Request) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.UserMessage(renderPrompt(g.opts.promptTemplate, promptData{
			brand:    g.opts.brand,
			business: req.BusinessName,
			goals:    req.Goals,
			count:    g.opts.count,
			tool:     suggestMovesToolName,
		})),
	}, nil
}

// FailbackGenerator tries each generator in order and returns the first success.
type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) GenerateInsights(ctx context.Context, req Request) (types.InsightList, error) {
	lastErr := errors.New("no generators configured")
	for _, generator := range g.generators {
		insights, err := generator.GenerateInsights(ctx, req)
		if err == nil {
			return insights, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all insight generators failed: %w", lastErr)
}
