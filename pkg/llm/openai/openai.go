// Package openai implements llm.Provider on the OpenAI chat completions
// API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/unikit/regent/pkg/llm"
)

type Provider struct {
	client      *openai.Client
	model       string
	temperature *float64
}

// New creates a Provider defaulting to gpt-4o-mini.
func New(opts ...option.RequestOption) *Provider {
	client := openai.NewClient(opts...)
	return &Provider{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// SetModel sets the model to use.
func (p *Provider) SetModel(model string) {
	p.model = model
}

// SetTemperature pins the sampling temperature. The classifier uses 0 for
// deterministic category labels.
func (p *Provider) SetTemperature(t float64) {
	p.temperature = &t
}

func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Message, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case llm.RoleUser:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case llm.RoleAssistant:
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			return nil, fmt.Errorf("unknown role: %s", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: openaiMessages,
		Model:    p.model,
	}
	if p.temperature != nil {
		params.Temperature = openai.Float(*p.temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	return &llm.Message{
		Role:    llm.RoleAssistant,
		Content: completion.Choices[0].Message.Content,
	}, nil
}
