package config

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrProNotConfigured   = errors.New("pro credentials are not configured")
)

func (p ProConfig) Configured() bool {
	return p.Username != "" && p.PasswordHash != ""
}

// Verify checks the supplied credentials against the configured bcrypt hash.
func (p ProConfig) Verify(username, password string) error {
	if !p.Configured() {
		return ErrProNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// SaveProCredentials writes the pro section of config.toml in dataDir.
func SaveProCredentials(dataDir, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Pro.Username = username
	cfg.Pro.PasswordHash = hash

	return SaveUserConfig(cfg, dataDir)
}
