package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSidebar() string {
	width := a.sidebarWidth()
	var b strings.Builder

	b.WriteString(TitleStyle.Render("WillChat"))
	if a.pro != nil && a.pro.Enabled() {
		b.WriteString(" " + ProBadgeStyle.Render("PRO"))
	}
	b.WriteString("\n")

	if a.mode == modeFilter || a.filterInput.Value() != "" {
		b.WriteString(a.filterInput.View() + "\n")
	}
	b.WriteString(BorderStyle.Render(strings.Repeat("─", width)) + "\n")

	if len(a.visible) == 0 {
		b.WriteString(DimStyle.Render("No matching chats"))
	}

	// Two lines per entry: title and last activity.
	rows := (a.height - 4) / 2
	start := 0
	if sel := a.selectedIndex(); sel >= rows && rows > 0 {
		start = sel - rows + 1
	}
	for i := start; i < len(a.visible) && i-start < rows; i++ {
		c := a.visible[i]
		title := truncate(c.Title, width-2)
		if c.ID == a.state.ActiveID {
			b.WriteString(SelectedStyle.Render("▸ " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("  " + c.UpdatedAt.Local().Format("Jan 2 15:04")))
		b.WriteString("\n")
	}

	return SidebarStyle.
		Width(width).
		Height(a.height).
		MaxHeight(a.height).
		Render(lipgloss.NewStyle().MaxWidth(width).Render(b.String()))
}
