package config

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
)

const (
	StorageFile   = "file"
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

const DefaultSystemPrompt = `You are a helpful AI assistant named Will. You're created by an indie italian developer called "lollo21". Provide clear, concise, and useful responses to user questions. Detect the user's preferred language within the first few messages and continue the conversation in that language without mentioning or switching to other languages, unless explicitly instructed to do so.`

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/willchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Type:           ProviderOpenRouter,
			BaseURL:        "https://openrouter.ai/api/v1",
			Model:          "meta-llama/llama-3.1-8b-instruct:free",
			Temperature:    0.7,
			MaxTokens:      1000,
			AppURL:         "http://localhost",
			AppTitle:       "AI Chat App",
			TimeoutSeconds: 60,
		},
		Chat: ChatConfig{
			ContextWindow:       10,
			TitleTimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Backend:    StorageFile,
			Encryption: string(EncryptionNone),
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8787",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# willchat System Configuration
# Location: ~/.config/willchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/willchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# willchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[provider]
# One of: openrouter, openai, anthropic, ollama
type = "openrouter"
base_url = "https://openrouter.ai/api/v1"
model = "meta-llama/llama-3.1-8b-instruct:free"
temperature = 0.7
max_tokens = 1000

# Sent to OpenRouter as HTTP-Referer and X-Title
app_url = "http://localhost"
app_title = "AI Chat App"
timeout_seconds = 60

# API key (optional here, WILLCHAT_API_KEY or OPENROUTER_API_KEY also work)
# api_key = ""

[chat]
# Number of most recent messages sent as context
context_window = 10
# Reject selecting unknown conversation ids instead of ignoring them
strict_select = false
title_timeout_seconds = 30
# Leave empty to use the built-in assistant persona
# system_prompt = ""

[storage]
# One of: file, bolt, sqlite, memory
backend = "file"
# One of: none, ssh_key
encryption = "none"
# ssh_key_path = "~/.ssh/id_ed25519"

[server]
listen = "127.0.0.1:8787"

[pro]
# Generate a hash with: willchat pro hash
# username = ""
# password_hash = ""
# model = ""
`
}
