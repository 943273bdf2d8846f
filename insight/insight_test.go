package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/leadflow/testcases"
	"github.com/tbxark/leadflow/types"
)

func TestPromptGeneratorParsesArray(t *testing.T) {
	cm := testcases.NewScriptedChatModel(testcases.TextReply(`["Launch a referral loop", " ", "Film member stories"]`))
	gen := NewPromptGenerator(cm, WithModel("gemini-2.5-flash"))

	got, err := gen.GenerateInsights(context.Background(), Request{BusinessName: "Atlas Fitness", Goals: "increase leads"})
	require.NoError(t, err)
	assert.Equal(t, types.InsightList{"Launch a referral loop", "Film member stories"}, got)

	calls := cm.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0][0].Content
	assert.Contains(t, prompt, `"Atlas Fitness"`)
	assert.Contains(t, prompt, `"increase leads"`)
	assert.Contains(t, prompt, "JSON array of strings")
	assert.Contains(t, prompt, DefaultBrand)

	opts := cm.Options()[0]
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.7, *opts.Temperature, 1e-6)
	require.NotNil(t, opts.Model)
	assert.Equal(t, "gemini-2.5-flash", *opts.Model)
}

func TestPromptGeneratorAcceptsEnvelope(t *testing.T) {
	cm := testcases.NewScriptedChatModel(testcases.TextReply("```json\n{\"insights\":[\"a\",\"b\",\"c\"]}\n```"))
	got, err := NewPromptGenerator(cm).GenerateInsights(context.Background(), Request{BusinessName: "x", Goals: "y"})
	require.NoError(t, err)
	assert.Equal(t, types.InsightList{"a", "b", "c"}, got)
}

func TestPromptGeneratorFailures(t *testing.T) {
	cases := map[string]testcases.Reply{
		"malformed":  testcases.TextReply("Here are some ideas: grow!"),
		"empty":      testcases.TextReply(""),
		"empty list": testcases.TextReply("[]"),
		"call error": testcases.ErrorReply(errors.New("401 unauthorized")),
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			cm := testcases.NewScriptedChatModel(reply)
			_, err := NewPromptGenerator(cm).GenerateInsights(context.Background(), Request{BusinessName: "x", Goals: "y"})
			assert.Error(t, err)
		})
	}
}

func TestPromptGeneratorCustomTemplate(t *testing.T) {
	cm := testcases.NewScriptedChatModel(testcases.TextReply(`["a"]`))
	gen := NewPromptGenerator(cm, WithPromptTemplate("{count} moves for {business} by {brand}"), WithBrand("Studio"), WithCount(5))
	_, err := gen.GenerateInsights(context.Background(), Request{BusinessName: "Atlas", Goals: "g"})
	require.NoError(t, err)
	assert.Equal(t, "5 moves for Atlas by Studio", cm.Calls()[0][0].Content)
}

func TestToolBasedGenerator(t *testing.T) {
	cm := testcases.NewScriptedChatModel(testcases.ToolReply(suggestMovesToolName, `{"moves":["a","b","c"]}`))
	gen, err := NewToolBasedGenerator(cm)
	require.NoError(t, err)
	got, err := gen.GenerateInsights(context.Background(), Request{BusinessName: "Atlas", Goals: "g"})
	require.NoError(t, err)
	assert.Equal(t, types.InsightList{"a", "b", "c"}, got)
	assert.Contains(t, cm.Calls()[0][0].Content, suggestMovesToolName)
	assert.Len(t, cm.Options()[0].Tools, 1)

	cm = testcases.NewScriptedChatModel(testcases.ToolReply(suggestMovesToolName, `{"moves":[]}`))
	gen, err = NewToolBasedGenerator(cm)
	require.NoError(t, err)
	_, err = gen.GenerateInsights(context.Background(), Request{BusinessName: "Atlas", Goals: "g"})
	assert.ErrorIs(t, err, ErrNoInsights)
}

func TestFailbackGenerator(t *testing.T) {
	failing := GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
		return nil, errors.New("down")
	})
	working := GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
		return types.InsightList{"ok"}, nil
	})

	got, err := NewFailbackGenerator(failing, working).GenerateInsights(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, types.InsightList{"ok"}, got)

	_, err = NewFailbackGenerator(failing).GenerateInsights(context.Background(), Request{})
	assert.ErrorContains(t, err, "down")

	_, err = NewFailbackGenerator().GenerateInsights(context.Background(), Request{})
	assert.Error(t, err)
}

func TestClientReturnsGeneratedInsights(t *testing.T) {
	cm := testcases.NewScriptedChatModel(testcases.TextReply(`["a","b","c"]`))
	got := NewClient(NewPromptGenerator(cm)).Generate(context.Background(), "Atlas Fitness", "increase leads")
	assert.Equal(t, types.InsightList{"a", "b", "c"}, got)
}

func TestClientFallsBack(t *testing.T) {
	cases := map[string]Generator{
		"error": GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
			return nil, errors.New("quota exceeded")
		}),
		"empty": GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
			return types.InsightList{"  "}, nil
		}),
		"panic": GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
			panic("boom")
		}),
		"malformed": NewPromptGenerator(testcases.NewScriptedChatModel(testcases.TextReply("{oops"))),
		"nil":       nil,
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			got := NewClient(gen).Generate(context.Background(), "Atlas Fitness", "increase leads")
			assert.Equal(t, Fallback, got)
		})
	}
}

func TestClientTimeoutFallsBack(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	cm := testcases.NewScriptedChatModel(testcases.Reply{Block: block, Message: nil})
	client := NewClient(NewPromptGenerator(cm), WithTimeout(20*time.Millisecond))

	start := time.Now()
	got := client.Generate(context.Background(), "Atlas Fitness", "increase leads")
	assert.Equal(t, Fallback, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClientFallbackIsCopied(t *testing.T) {
	failing := GeneratorFunc(func(ctx context.Context, req Request) (types.InsightList, error) {
		return nil, errors.New("down")
	})
	client := NewClient(failing, WithFallback(types.InsightList{"custom"}))
	got := client.Generate(context.Background(), "a", "b")
	got[0] = "mutated"
	assert.Equal(t, types.InsightList{"custom"}, client.Generate(context.Background(), "a", "b"))
	assert.Equal(t, "Optimize high-conversion landing pages", Fallback[0])
}
