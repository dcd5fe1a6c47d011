package provider

import (
	"willchat/config"
)

// ConfigFromSettings maps the [provider] section of the user config onto a
// factory Config.
func ConfigFromSettings(cfg *config.Config) Config {
	return Config{
		Type:        MapProviderIDToType(cfg.Provider.Type),
		BaseURL:     cfg.Provider.BaseURL,
		Model:       cfg.Provider.Model,
		APIKey:      cfg.Provider.APIKey,
		Temperature: cfg.Provider.Temperature,
		MaxTokens:   cfg.Provider.MaxTokens,
		AppURL:      cfg.Provider.AppURL,
		AppTitle:    cfg.Provider.AppTitle,
		Timeout:     cfg.RequestTimeout(),
	}
}

// InitializeProvider creates the configured completion backend.
//
// A missing API key is logged as a warning but does not fail: the provider
// still reports ErrMissingAPIKey on every call, which the chat store turns
// into an error reply.
func InitializeProvider(cfg *config.Config) (Provider, error) {
	log := config.Component("provider")

	providerCfg := ConfigFromSettings(cfg)

	// The config template targets OpenRouter; other providers fall back to
	// their own endpoint and model when those were left untouched.
	if providerCfg.Type != ProviderTypeOpenRouter {
		if providerCfg.BaseURL == DefaultOpenRouterURL {
			providerCfg.BaseURL = ""
		}
		if providerCfg.Model == DefaultOpenRouterModel {
			providerCfg.Model = ""
		}
	}

	p, err := NewProvider(providerCfg)
	if err != nil {
		return nil, err
	}

	if !cfg.HasAPIKey() {
		log.Warn().Str("provider", p.Name()).Msg("no API key configured")
	}
	log.Debug().Str("provider", p.Name()).Str("model", p.GetModel()).Msg("initialized provider")

	return p, nil
}
