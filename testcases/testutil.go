package testcases

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrScriptExhausted is returned by ScriptedChatModel when no reply is left.
var ErrScriptExhausted = errors.New("scripted chat model has no more replies")

// Reply is one scripted model answer.
type Reply struct {
	Message *schema.Message
	Err     error
	// Block, when set, is waited on (or ctx) before answering.
	Block <-chan struct{}
}

// ScriptedChatModel answers Generate calls from a fixed script and records what it saw.
type ScriptedChatModel struct {
	mu      sync.Mutex
	replies []Reply
	calls   [][]*schema.Message
	options []*model.Options
}

var _ model.ToolCallingChatModel = (*ScriptedChatModel)(nil)

func NewScriptedChatModel(replies ...Reply) *ScriptedChatModel {
	return &ScriptedChatModel{replies: replies}
}

// TextReply is a reply whose assistant content is text.
func TextReply(text string) Reply {
	return Reply{Message: schema.AssistantMessage(text, nil)}
}

// ToolReply is a reply carrying a single tool call with args as its arguments.
func ToolReply(name, args string) Reply {
	return Reply{Message: schema.AssistantMessage("", []schema.ToolCall{{
		ID:       "call_1",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}})}
}

// ErrorReply is a reply that fails the call.
func ErrorReply(err error) Reply {
	return Reply{Err: err}
}

func (m *ScriptedChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.options = append(m.options, model.GetCommonOptions(&model.Options{}, opts...))
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, ErrScriptExhausted
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if reply.Block != nil {
		select {
		case <-reply.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return reply.Message, reply.Err
}

func (m *ScriptedChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ScriptedChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

// Calls returns the message lists passed to Generate so far.
func (m *ScriptedChatModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]*schema.Message(nil), m.calls...)
}

// Options returns the common options resolved for each Generate call.
func (m *ScriptedChatModel) Options() []*model.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Options(nil), m.options...)
}

// InitChatModel builds a real chat model from the environment, skipping the test unless
// LEADFLOW_RUN_LIVE_TESTS=1 and an API key is present.
func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("LEADFLOW_RUN_LIVE_TESTS") != "1" {
		t.Skip("set LEADFLOW_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}
	apiKey := os.Getenv("LEADFLOW_AI_API_KEY")
	if apiKey == "" {
		t.Skip("LEADFLOW_AI_API_KEY is empty")
		return nil
	}
	baseURL := os.Getenv("LEADFLOW_AI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	modelName := os.Getenv("LEADFLOW_AI_MODEL")
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}
