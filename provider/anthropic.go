package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"willchat/model"
)

// AnthropicProvider implements the Provider interface using Anthropic's official API.
type AnthropicProvider struct {
	client      anthropic.Client
	apiKey      string
	temperature float64
	maxTokens   int

	mu    sync.RWMutex
	model anthropic.Model
}

func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	cfg = cfg.withDefaults(DefaultAnthropicURL, DefaultAnthropicModel)

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

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &AnthropicProvider{
		client:      anthropic.NewClient(opts...),
		apiKey:      cfg.APIKey,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		model:       anthropic.Model(cfg.Model),
	}, nil
}

// Complete implements model.Completer. System entries of the transcript are
// sent as the system parameter.
func (p *AnthropicProvider) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	anthropicMessages, system := ConvertToAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.GetModel()),
		Messages:    anthropicMessages,
		MaxTokens:   int64(p.maxTokens),
		Temperature: anthropic.Float(p.temperature),
	}
	if len(system) > 0 {
		params.System = system
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", newAPIError(p.Name(), apiErr.StatusCode, "")
		}
		return "", fmt.Errorf("Anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrNoChoices
	}
	return text.String(), nil
}

func (p *AnthropicProvider) Name() string {
	return "Anthropic"
}

func (p *AnthropicProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return string(p.model)
}

func (p *AnthropicProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = anthropic.Model(model)
}
