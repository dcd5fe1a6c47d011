package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDataDir  = "WILLCHAT_DATA_DIR"
	EnvProvider = "WILLCHAT_PROVIDER"
	EnvModel    = "WILLCHAT_MODEL"
	EnvAPIKey   = "WILLCHAT_API_KEY"
	EnvDebug    = "WILLCHAT_DEBUG"

	// EnvOpenRouterAPIKey is honoured when the openrouter provider is selected
	// and WILLCHAT_API_KEY is unset.
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Type           string  `toml:"type"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	APIKey         string  `toml:"api_key,omitempty"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	AppURL         string  `toml:"app_url"`
	AppTitle       string  `toml:"app_title"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type ChatConfig struct {
	SystemPrompt        string `toml:"system_prompt,omitempty"`
	ContextWindow       int    `toml:"context_window"`
	StrictSelect        bool   `toml:"strict_select"`
	TitleTimeoutSeconds int    `toml:"title_timeout_seconds"`
}

type StorageConfig struct {
	Backend    string `toml:"backend"`
	Encryption string `toml:"encryption"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
}

type ProConfig struct {
	Username     string `toml:"username,omitempty"`
	PasswordHash string `toml:"password_hash,omitempty"`
	Model        string `toml:"model,omitempty"`
}

type UserConfig struct {
	Provider ProviderConfig `toml:"provider"`
	Chat     ChatConfig     `toml:"chat"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	Pro      ProConfig      `toml:"pro"`
}

type Config struct {
	DataDirectory string
	Provider      ProviderConfig
	Chat          ChatConfig
	Storage       StorageConfig
	Server        ServerConfig
	Pro           ProConfig
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

func (c *Config) TitleTimeout() time.Duration {
	return time.Duration(c.Chat.TitleTimeoutSeconds) * time.Second
}

// HasAPIKey reports whether a credential is configured for a provider that
// needs one. Ollama runs locally and never does.
func (c *Config) HasAPIKey() bool {
	return c.Provider.Type == ProviderOllama || c.Provider.APIKey != ""
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.Provider = u.Provider
	c.Chat = u.Chat
	c.Storage = u.Storage
	c.Server = u.Server
	c.Pro = u.Pro
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv(EnvProvider); provider != "" {
		c.Provider.Type = provider
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.Provider.Model = model
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Provider.APIKey = key
	} else if key := os.Getenv(EnvOpenRouterAPIKey); key != "" && c.Provider.Type == ProviderOpenRouter && c.Provider.APIKey == "" {
		c.Provider.APIKey = key
	}
}

// normalize repairs values a hand-edited config file may have zeroed.
func (c *Config) normalize() {
	d := DefaultUserConfig()
	if c.Provider.Type == "" {
		c.Provider.Type = d.Provider.Type
	}
	if c.Provider.MaxTokens <= 0 {
		c.Provider.MaxTokens = d.Provider.MaxTokens
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = d.Provider.TimeoutSeconds
	}
	if c.Chat.ContextWindow <= 0 {
		c.Chat.ContextWindow = d.Chat.ContextWindow
	}
	if c.Chat.TitleTimeoutSeconds <= 0 {
		c.Chat.TitleTimeoutSeconds = d.Chat.TitleTimeoutSeconds
	}
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = DefaultSystemPrompt
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.Encryption == "" {
		c.Storage.Encryption = string(EncryptionNone)
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

// Load reads settings.toml and <data_directory>/config.toml, creating both
// from templates on first run, then applies environment overrides.
func Load() (*Config, error) {
	return LoadWithDataDir("")
}

// LoadWithDataDir is Load with an explicit data directory that takes
// precedence over both WILLCHAT_DATA_DIR and settings.toml.
func LoadWithDataDir(dataDir string) (*Config, error) {
	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
	}

	switch {
	case dataDir != "":
		cfg.DataDirectory = dataDir
	case os.Getenv(EnvDataDir) != "":
		cfg.DataDirectory = os.Getenv(EnvDataDir)
	default:
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	dir := cfg.DataDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg, nil
}
