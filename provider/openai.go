package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"willchat/model"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
// through the official SDK. OpenRouterProvider builds on it.
type OpenAIProvider struct {
	name        string
	client      openai.Client
	apiKey      string
	temperature float64
	maxTokens   int

	mu    sync.RWMutex
	model string
}

// NewOpenAIProvider creates a provider for api.openai.com or a compatible
// server at cfg.BaseURL. A missing API key is not an error here; Complete
// reports ErrMissingAPIKey instead.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	cfg = cfg.withDefaults(DefaultOpenAIURL, DefaultOpenAIModel)
	return newOpenAICompatible("OpenAI", cfg), nil
}

func newOpenAICompatible(name string, cfg Config, extra ...option.RequestOption) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	opts = append(opts, extra...)

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIProvider{
		name:        name,
		client:      openai.NewClient(opts...),
		apiKey:      cfg.APIKey,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		model:       cfg.Model,
	}
}

// Complete implements model.Completer.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Messages:    ConvertToOpenAIMessages(messages),
		Model:       openai.ChatModel(p.GetModel()),
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(int64(p.maxTokens)),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", newAPIError(p.name, apiErr.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%s request failed: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}
