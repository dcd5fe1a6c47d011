package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PassphraseModal is a standalone program that asks for the passphrase of
// the SSH key protecting stored conversations, before the main UI starts.
type PassphraseModal struct {
	keyPath   string
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool
}

func NewPassphraseModal(keyPath string) PassphraseModal {
	input := NewPassphraseInput("Enter passphrase")
	input.Focus()

	return PassphraseModal{
		keyPath: keyPath,
		input:   input,
	}
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if err := validatePassphrase(m.input.Value()); err != nil {
				m.err = "Passphrase cannot be empty"
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	return RenderPassphraseModal(
		"SSH Key Passphrase Required",
		m.keyPath,
		m.input,
		m.err,
		m.width,
		m.height,
	)
}

// Passphrase returns the entered passphrase (empty if cancelled)
func (m PassphraseModal) Passphrase() string {
	if m.cancelled {
		return ""
	}
	return m.input.Value()
}

func (m PassphraseModal) Cancelled() bool {
	return m.cancelled
}

// PromptPassphrase runs the modal and returns the passphrase, or ok=false
// when the user cancelled.
func PromptPassphrase(keyPath string) (passphrase string, ok bool, err error) {
	final, err := tea.NewProgram(NewPassphraseModal(keyPath), tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	m := final.(PassphraseModal)
	if m.Cancelled() {
		return "", false, nil
	}
	return m.Passphrase(), true, nil
}
