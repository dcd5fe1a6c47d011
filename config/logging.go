package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	Debug = false

	// Logger is a no-op until InitDebugLog enables it.
	Logger = zerolog.Nop()
)

// InitDebugLog routes Logger to <dataDir>/debug.log. It is a no-op unless
// Debug is set.
func InitDebugLog(dataDir string) error {
	if !Debug {
		return nil
	}

	if err := EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logPath := filepath.Join(dataDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}

	Logger = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	Logger.Info().Str("path", logPath).Msg("debug logging enabled")
	return nil
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
