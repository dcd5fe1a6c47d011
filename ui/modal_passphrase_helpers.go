package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

var errEmptyPassphrase = errors.New("passphrase cannot be empty")

// NewPassphraseInput creates a configured textinput for secret entry.
// Shared by the SSH passphrase prompt and the pro mode password field.
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 40
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// RenderPassphraseModal renders a modal prompting for SSH key passphrase
func RenderPassphraseModal(
	title string,
	keyPath string,
	passphraseInput textinput.Model,
	errorMsg string,
	width int,
	height int,
) string {
	// Guard clause: prevent rendering in tiny terminals or before WindowSizeMsg
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
		if modalWidth < 10 {
			modalWidth = 10
		}
	}

	var messageLines []string
	messageLines = append(messageLines, centerTextLine("Your conversations are encrypted with an SSH key", modalWidth))
	messageLines = append(messageLines, centerTextLine("that is protected by a passphrase.", modalWidth))
	messageLines = append(messageLines, centerTextLine(fmt.Sprintf("Key: %s", keyPath), modalWidth))
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
	messageLines = append(messageLines, centerTextLine(passphraseInput.View(), modalWidth))

	if errorMsg != "" {
		styledErr := lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true).
			Render("⚠ " + errorMsg)
		messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
		messageLines = append(messageLines, centerTextLine(styledErr, modalWidth))
	}

	return RenderThreeSectionModal(
		title,
		messageLines,
		FormatFooter("Enter", "Continue", "Esc", "Cancel"),
		ModalTypeInfo,
		modalWidth,
		width,
		height,
	)
}

func validatePassphrase(passphrase string) error {
	if passphrase == "" {
		return errEmptyPassphrase
	}
	return nil
}
