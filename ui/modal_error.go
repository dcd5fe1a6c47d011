package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModal reports a start-up failure (bad config, unreadable storage)
// before the main UI exists.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := 60
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	return RenderThreeSectionModal(
		m.title,
		centeredLines(m.message, modalWidth),
		FormatFooter("Enter", "Quit"),
		ModalTypeError,
		modalWidth,
		m.width,
		m.height,
	)
}

// ShowError blocks on an error modal until the user dismisses it.
func ShowError(title, message string) error {
	_, err := tea.NewProgram(NewErrorModal(title, message), tea.WithAltScreen()).Run()
	return err
}
