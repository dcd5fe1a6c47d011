package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// loadTOML decodes path into cfg. A missing file is first written from
// template and cfg keeps its defaults.
func loadTOML(path string, cfg any, template func() string) error {
	if !FileExists(path) {
		return writeTemplate(path, template())
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeTemplate writes content to path unless the file already exists.
func writeTemplate(path, content string) error {
	if FileExists(path) {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// saveTOML replaces path with the encoding of v. Both config files may
// carry secrets, so they are always 0600.
func saveTOML(path string, v any) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func LoadSystemConfig() (*SystemConfig, error) {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg := DefaultSystemConfig()
	if err := loadTOML(GetSettingsFilePath(), cfg, GenerateSystemConfigTemplate); err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	return cfg, nil
}

// SystemConfigExists reports whether settings.toml has been written yet.
func SystemConfigExists() bool {
	return FileExists(GetSettingsFilePath())
}

// SaveSystemConfig persists the default data directory to settings.toml.
func SaveSystemConfig(cfg *SystemConfig) error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return saveTOML(GetSettingsFilePath(), cfg)
}

func LoadUserConfig(dataDir string) (*UserConfig, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg := DefaultUserConfig()
	if err := loadTOML(GetUserConfigPath(dataDir), cfg, GenerateUserConfigTemplate); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return cfg, nil
}

func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return saveTOML(GetUserConfigPath(dataDir), cfg)
}
