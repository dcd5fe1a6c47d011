package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"willchat/model"
)

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "\"", "-",
		"<", "-", ">", "-", "|", "-", " ", "-", "\n", "-", "\r", "-",
	)
	name = replacer.Replace(name)
	name = strings.Trim(name, "-.")

	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50])
	}

	if name == "" {
		name = "conversation"
	}
	return name
}

// GenerateExportPath builds a default export path in ~/Downloads.
func GenerateExportPath(title string, now time.Time) string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE")
	}

	filename := fmt.Sprintf("willchat-%s-%s.json", SanitizeFilename(title), now.Format("20060102-150405"))
	return filepath.Join(homeDir, "Downloads", filename)
}

// ExportConversation writes c as indented JSON in the persisted record format.
func ExportConversation(c model.Conversation, exportPath string) error {
	data, err := MarshalConversation(c, true)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	// Ensure directory exists (0700 - user-only access)
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// 0600: exports contain the full transcript
	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
