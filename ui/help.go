package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("• %-13s %s", h.Key, h.Desc)
}

func (a App) renderHelp() string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("WillChat " + a.version + " - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	conversations := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chats"),
		helpLine(a.keys.NewConversation),
		helpLine(a.keys.NextConversation),
		helpLine(a.keys.PrevConversation),
		helpLine(a.keys.Rename),
		helpLine(a.keys.Delete),
		helpLine(a.keys.Search),
	)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		helpLine(a.keys.ProMode),
		helpLine(a.keys.Help),
		helpLine(a.keys.Quit),
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		helpLine(a.keys.Send),
		"• Alt+Enter     New line",
		helpLine(a.keys.Regenerate),
		helpLine(a.keys.Yank),
		helpLine(a.keys.ScrollDown),
		helpLine(a.keys.ScrollUp),
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, conversations, "", global)
	column2 := chatActions

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", a.keys.Help.Help().Key))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
