package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"MarketRadar/internal/config"
	"MarketRadar/internal/ports"
)

// GeminiProvider talks to the Gemini API. A client is created per call since
// a run makes a single call.
type GeminiProvider struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	maxTokens   int32
}

var _ ports.CompletionProvider = (*GeminiProvider)(nil)

// NewGeminiProvider captures the configuration for later calls.
func NewGeminiProvider(cfg config.LLMConfig) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}
}

func (p *GeminiProvider) Name() string { return config.ProviderGemini }

// Complete asks for a JSON response with the system prompt as instruction.
func (p *GeminiProvider) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(p.temperature),
	}
	if p.maxTokens > 0 {
		genCfg.MaxOutputTokens = p.maxTokens
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.User), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return resp.Text(), nil
}
