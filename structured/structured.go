package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ErrEmptyContent is returned when the model answers with no text to decode.
var ErrEmptyContent = errors.New("empty model content")

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain turns a prompt builder and a chat model into a typed call.
type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
	Options       []model.Option
}

// NewChain builds a chain that forces the model to answer through a single tool whose
// parameters are derived from TOutput.
func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
	opts ...model.Option,
) (*Chain[TInput, TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
		Options:       opts,
	}, nil
}

// NewTextChain builds a chain that decodes TOutput from the JSON text of the reply.
func NewTextChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	opts ...model.Option,
) *Chain[TInput, TOutput] {
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		Options:       opts,
	}
}

func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	opts := s.Options
	if s.ToolInfo != nil {
		opts = append(append([]model.Option{}, opts...),
			model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
			model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
		)
	}

	response, err := s.ChatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if response == nil {
		return nil, fmt.Errorf("call model failed: %w", ErrEmptyContent)
	}

	if s.ToolInfo == nil {
		return DecodeJSONText[TOutput](response.Content)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}

	var result TOutput
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &result); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}
	return &result, nil
}

func (s *Chain[TInput, TOutput]) GetToolInfo() *schema.ToolInfo {
	return s.ToolInfo
}

// DecodeJSONText decodes content as JSON, tolerating a surrounding markdown code fence.
func DecodeJSONText[T any](content string) (*T, error) {
	text := StripCodeFence(content)
	if text == "" {
		return nil, ErrEmptyContent
	}
	var result T
	if err := sonic.UnmarshalString(text, &result); err != nil {
		return nil, fmt.Errorf("parse model content failed: %w", err)
	}
	return &result, nil
}

// StripCodeFence removes a leading ```lang line and a trailing ``` from s.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimLeftFunc(s, unicode.IsLetter)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
