package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// InstanceLockedModal is shown when another willchat instance holds the
// data directory lock. The user can exit or force delete the lock file.
type InstanceLockedModal struct {
	runningPID  int
	width       int
	height      int
	forceDelete bool
}

func NewInstanceLockedModal(runningPID int) InstanceLockedModal {
	return InstanceLockedModal{runningPID: runningPID}
}

func (m InstanceLockedModal) Init() tea.Cmd {
	return nil
}

func (m InstanceLockedModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "ctrl+c":
			return m, tea.Quit
		case "d", "D":
			m.forceDelete = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// ForceDelete returns true if the user chose to force delete the lock file
func (m InstanceLockedModal) ForceDelete() bool {
	return m.forceDelete
}

func (m InstanceLockedModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := 60
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	message := fmt.Sprintf(
		"Another willchat instance is using this data directory (PID %d).\n\n"+
			"Two instances writing the same conversations would\n"+
			"overwrite each other's changes.\n\n"+
			"Close the other instance or point this one at a\n"+
			"different data directory with --data-dir.\n\n"+
			"If you think this is a mistake, press D to force delete\n"+
			"the lock file and open willchat anyway.",
		m.runningPID)

	return RenderThreeSectionModal(
		"⚠  willchat Already Running",
		centeredLines(message, modalWidth),
		FormatFooter("Enter", "Exit", "D", "Force delete lock file"),
		ModalTypeError,
		modalWidth,
		m.width,
		m.height,
	)
}

// PromptInstanceLocked runs the modal and reports whether the user asked to
// remove the stale lock.
func PromptInstanceLocked(pid int) (bool, error) {
	final, err := tea.NewProgram(NewInstanceLockedModal(pid), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	return final.(InstanceLockedModal).ForceDelete(), nil
}
