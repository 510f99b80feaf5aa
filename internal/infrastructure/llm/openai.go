package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"MarketRadar/internal/config"
	"MarketRadar/internal/ports"
)

// OpenAIProvider talks to OpenAI or any chat-completions compatible API.
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       openai.ChatModel
	temperature float64
	maxTokens   int64
}

var _ ports.CompletionProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a client from configuration. SDK retries are off;
// a failed call is reported once and the run moves on.
func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client:      &client,
		name:        cfg.Provider,
		model:       openai.ChatModel(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

// Complete sends the system and user messages and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(p.temperature),
	}
	if p.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(p.maxTokens)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
