package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"willchat/model"
)

const userBar = "▌"

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.mode {
	case modeConfirm:
		return RenderConfirmationModal(
			a.confirm,
			a.keys.Confirm.Help().Key,
			a.keys.Cancel.Help().Key,
			a.width,
			a.height,
		)
	case modePro:
		return a.renderProModal()
	case modeHelp:
		return a.renderHelp()
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.viewport.View(),
		a.renderInput(),
		a.renderStatusBar(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(), main)
}

func (a App) renderHeader() string {
	title := "New chat"
	if conv, ok := a.activeConversation(); ok {
		title = conv.Title
	}
	width := a.threadWidth()

	badge := ""
	if a.pro != nil && a.pro.Enabled() {
		badge = " " + ProBadgeStyle.Render("PRO")
	}
	header := TitleStyle.Render(truncate(title, width-6)) + badge
	return header + "\n" + BorderStyle.Render(strings.Repeat("─", width))
}

func (a App) renderInput() string {
	if a.mode == modeRename {
		return a.renameInput.View() + "\n" + DimStyle.Render("Enter to save, Esc to cancel") + "\n"
	}
	return a.input.View()
}

func (a App) renderStatusBar() string {
	if a.status != "" {
		if a.statusErr {
			return ErrorStyle.Render(a.status)
		}
		return StatusStyle.Render(a.status)
	}
	if a.loading() {
		return StatusStyle.Render(a.spinner.View() + " Thinking...")
	}
	return FormatFooter(
		a.keys.Send.Help().Key, "Send",
		a.keys.NewConversation.Help().Key, "New",
		a.keys.Help.Help().Key, "Help",
		a.keys.Quit.Help().Key, "Quit",
	)
}

// updateViewport rebuilds the thread and returns render commands for replies
// that have no markdown at the current width yet.
func (a *App) updateViewport(gotoBottom bool) []tea.Cmd {
	width := a.threadWidth()
	wasAtBottom := a.viewport.AtBottom()

	conv, ok := a.activeConversation()
	if !ok || conv.IsEmpty() {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Start chatting!"))
		return nil
	}

	var (
		cmds    []tea.Cmd
		content strings.Builder
	)
	for i, msg := range conv.Messages {
		if i > 0 {
			content.WriteString("\n\n")
		}
		switch {
		case msg.Sender == model.SenderUser:
			content.WriteString(renderUserMessage(msg.Content, width))
		case msg.Status == model.StatusError:
			content.WriteString(ErrorStyle.Width(width).Render(msg.Content))
		default:
			k := renderKey{messageID: msg.ID, width: width}
			if rendered, ok := a.rendered[k]; ok {
				content.WriteString(rendered)
				continue
			}
			content.WriteString(AssistantStyle.Width(width).Render(msg.Content))
			if !a.pending[k] {
				a.pending[k] = true
				cmds = append(cmds, renderMarkdownCmd(msg.ID, msg.Content, width))
			}
		}
	}

	if a.loading() {
		content.WriteString("\n\n" + a.spinner.View() + DimStyle.Render(" Thinking..."))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom || wasAtBottom {
		a.viewport.GotoBottom()
	}
	return cmds
}

func renderUserMessage(content string, width int) string {
	wrapped := lipgloss.NewStyle().Width(width - 2).Render(content)
	lines := strings.Split(wrapped, "\n")
	bar := UserStyle.Render(userBar)
	for i, line := range lines {
		lines[i] = bar + " " + line
	}
	return strings.Join(lines, "\n")
}
