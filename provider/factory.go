package provider

import (
	"fmt"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches on Config.Type; an empty type selects OpenRouter.
//
// Example:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:  provider.ProviderTypeOllama,
//	    Model: "llama3.1",
//	})
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Type {
	case ProviderTypeOpenRouter, "":
		return NewOpenRouterProvider(cfg)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a factory ProviderType.
// Unknown IDs are passed through so the factory reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
