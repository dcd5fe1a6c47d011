package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"

	"willchat/model"
)

// OllamaProvider talks to a local Ollama server. It needs no credential.
type OllamaProvider struct {
	client      *api.Client
	baseURL     string
	temperature float64
	maxTokens   int

	mu    sync.RWMutex
	model string
}

func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	cfg = cfg.withDefaults(DefaultOllamaURL, DefaultOllamaModel)

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OllamaProvider{
		client:      api.NewClient(parsedURL, httpClient),
		baseURL:     cfg.BaseURL,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		model:       cfg.Model,
	}, nil
}

// Complete implements model.Completer with a single non-streaming request.
func (p *OllamaProvider) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    p.GetModel(),
		Messages: ConvertToOllamaMessages(messages),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": p.temperature,
			"num_predict": p.maxTokens,
		},
	}

	var content string
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", newAPIError(p.Name(), statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return "", fmt.Errorf("Ollama request failed: %w", err)
	}

	if content == "" {
		return "", ErrNoChoices
	}
	return content, nil
}

func (p *OllamaProvider) Name() string {
	return "Ollama"
}

func (p *OllamaProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *OllamaProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}
