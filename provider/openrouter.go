package provider

import (
	"strings"

	"github.com/openai/openai-go/v3/option"
)

// OpenRouterProvider targets OpenRouter, which is OpenAI-compatible apart
// from two attribution headers.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates the default provider. Unset fields fall back
// to the OpenRouter base URL, the free Llama 3.1 8B model and 1000 max tokens.
func NewOpenRouterProvider(cfg Config) (*OpenRouterProvider, error) {
	cfg = cfg.withDefaults(DefaultOpenRouterURL, DefaultOpenRouterModel)

	var headers []option.RequestOption
	if cfg.AppURL != "" {
		headers = append(headers, option.WithHeader("HTTP-Referer", cfg.AppURL))
	}
	if cfg.AppTitle != "" {
		headers = append(headers, option.WithHeader("X-Title", cfg.AppTitle))
	}

	return &OpenRouterProvider{
		OpenAIProvider: newOpenAICompatible("OpenRouter", cfg, headers...),
	}, nil
}

// DisplayModel strips the vendor prefix for UI display.
// "meta-llama/llama-3.1-8b-instruct:free" → "llama-3.1-8b-instruct:free"
func (p *OpenRouterProvider) DisplayModel() string {
	return stripProviderPrefix(p.GetModel())
}

func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
