// Package provider implements model.Completer for the supported completion
// backends.
//
// Every backend answers a single non-streaming request with the first
// generated reply. Failures are reported as one of:
//   - ErrMissingAPIKey when no credential is configured (checked per call)
//   - *APIError when the endpoint answers with a non-success status
//   - ErrNoChoices when the response carries no usable text
//   - a wrapped transport error otherwise
//
// No backend retries a failed request.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenRouter,
//	    APIKey: os.Getenv("OPENROUTER_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Complete(ctx, transcript)
package provider

import (
	"net/http"
	"time"

	"willchat/model"
)

// Note: Completer and ModelSwitcher are defined in the model package
// (model/provider.go) to avoid import cycles.

// Provider is a completion backend whose model can be switched at runtime.
type Provider interface {
	model.Completer
	model.ModelSwitcher
	Name() string
}

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "meta-llama/llama-3.1-8b-instruct:free"
	DefaultOpenAIURL       = "https://api.openai.com/v1"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultAnthropicURL    = "https://api.anthropic.com"
	DefaultAnthropicModel  = "claude-3-5-haiku-latest"
	DefaultOllamaURL       = "http://localhost:11434"
	DefaultOllamaModel     = "llama3.1:latest"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// Config holds provider-specific configuration.
type Config struct {
	Type        ProviderType
	BaseURL     string
	Model       string
	APIKey      string // unused for Ollama
	Temperature float64
	MaxTokens   int

	// AppURL and AppTitle are sent to OpenRouter as HTTP-Referer and X-Title.
	AppURL   string
	AppTitle string

	Timeout    time.Duration
	HTTPClient *http.Client
}

func (c Config) withDefaults(baseURL, modelName string) Config {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.Model == "" {
		c.Model = modelName
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}
