package testcases

import (
	"context"
	"testing"

	"github.com/tbxark/leadflow/insight"
)

// TestLiveInsights asks a real model for strategic moves.
func TestLiveInsights(t *testing.T) {
	cm := InitChatModel(t)
	for name, gen := range map[string]func() (insight.Generator, error){
		"prompt": func() (insight.Generator, error) { return insight.NewPromptGenerator(cm), nil },
		"tool":   func() (insight.Generator, error) { return insight.NewToolBasedGenerator(cm) },
	} {
		t.Run(name, func(t *testing.T) {
			g, err := gen()
			if err != nil {
				t.Fatalf("build generator: %v", err)
			}
			list, err := g.GenerateInsights(context.Background(), insight.Request{
				BusinessName: "Atlas Fitness",
				Goals:        "increase leads",
			})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(list) == 0 {
				t.Fatal("expected at least one insight")
			}
			t.Logf("%s: %v", name, list)
		})
	}
}
