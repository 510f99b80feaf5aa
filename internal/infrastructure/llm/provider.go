// Package llm adapts hosted language models to ports.CompletionProvider.
package llm

import (
	"fmt"
	"strings"

	"MarketRadar/internal/config"
	"MarketRadar/internal/ports"
)

// New returns the provider selected by cfg.Provider. Groq is reached through
// its OpenAI-compatible endpoint.
func New(cfg config.LLMConfig) (ports.CompletionProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key for %s", config.ErrMissingCredential, cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is empty for provider %s", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg), nil
	case config.ProviderGemini:
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
