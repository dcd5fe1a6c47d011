package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"willchat/chat"
	"willchat/config"
)

const statusTimeout = 3 * time.Second

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		cmds = append(cmds, a.updateViewport(true)...)
		return a, tea.Batch(cmds...)

	case stateChangedMsg:
		before := a.state.ActiveID
		a.refresh()
		cmds = append(cmds, a.updateViewport(before != a.state.ActiveID)...)
		return a, tea.Batch(cmds...)

	case replyDoneMsg:
		a.sending = false
		a.refresh()
		cmds = append(cmds, a.updateViewport(true)...)
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("reply failed")
			cmds = append(cmds, a.setStatus(replyErrorText(msg.err), true))
		}
		return a, tea.Batch(cmds...)

	case markdownRenderedMsg:
		delete(a.pending, msg.key)
		a.rendered[msg.key] = msg.rendered
		return a, tea.Batch(a.updateViewport(false)...)

	case statusMsg:
		return a, a.setStatus(msg.text, msg.isError)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.loading() {
			cmds = append(cmds, a.updateViewport(false)...)
		}
		return a, tea.Batch(append(cmds, cmd)...)

	case tea.KeyMsg:
		switch a.mode {
		case modeRename:
			return a.updateRename(msg)
		case modeFilter:
			return a.updateFilter(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		case modePro:
			return a.updatePro(msg)
		case modeHelp:
			if key.Matches(msg, a.keys.Close, a.keys.Help, a.keys.Quit) {
				a.mode = modeChat
			}
			return a, nil
		}
		return a.updateChat(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
		return a, nil

	case key.Matches(msg, a.keys.Send):
		return a.send()

	case key.Matches(msg, a.keys.NewConversation):
		a.store.CreateNewConversation()
		a.refresh()
		return a, tea.Batch(a.updateViewport(true)...)

	case key.Matches(msg, a.keys.NextConversation):
		return a.moveSelection(1)

	case key.Matches(msg, a.keys.PrevConversation):
		return a.moveSelection(-1)

	case key.Matches(msg, a.keys.Rename):
		conv, ok := a.activeConversation()
		if !ok {
			return a, nil
		}
		a.mode = modeRename
		a.renameInput.SetValue(conv.Title)
		a.renameInput.CursorEnd()
		a.input.Blur()
		return a, a.renameInput.Focus()

	case key.Matches(msg, a.keys.Delete):
		conv, ok := a.activeConversation()
		if !ok {
			return a, nil
		}
		a.mode = modeConfirm
		a.confirm = ConfirmationState{
			Active:  true,
			Title:   "Delete chat",
			Message: "Delete \"" + conv.Title + "\"? This cannot be undone.",
			Action:  confirmDelete,
			Target:  conv.ID,
		}
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.mode = modeFilter
		a.input.Blur()
		return a, a.filterInput.Focus()

	case key.Matches(msg, a.keys.Regenerate):
		return a.regenerate()

	case key.Matches(msg, a.keys.Yank):
		return a.yankLastReply()

	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.HalfPageDown()
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.HalfPageUp()
		return a, nil

	case key.Matches(msg, a.keys.ProMode):
		return a.openPro()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) send() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(a.input.Value())
	if content == "" || a.loading() {
		return a, nil
	}
	a.input.Reset()
	a.sending = true
	return a, tea.Batch(sendCmd(a.store, content), a.spinner.Tick)
}

func (a App) regenerate() (tea.Model, tea.Cmd) {
	if a.loading() {
		return a, nil
	}
	conv, ok := a.activeConversation()
	if !ok {
		return a, nil
	}
	reply, ok := conv.LastReply()
	if !ok {
		return a, a.setStatus("Nothing to regenerate", true)
	}
	a.sending = true
	return a, tea.Batch(regenerateCmd(a.store, reply.ID), a.spinner.Tick)
}

func (a App) yankLastReply() (tea.Model, tea.Cmd) {
	conv, ok := a.activeConversation()
	if !ok {
		return a, nil
	}
	reply, ok := conv.LastReply()
	if !ok {
		return a, a.setStatus("No reply to copy", true)
	}
	if err := a.writeClipboard(reply.Content); err != nil {
		a.log.Warn().Err(err).Msg("clipboard write failed")
		return a, a.setStatus("Failed to copy to clipboard", true)
	}
	return a, a.setStatus("Copied last reply to clipboard", false)
}

func (a App) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if len(a.visible) == 0 {
		return a, nil
	}
	idx := a.selectedIndex()
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(a.visible) - 1
	default:
		idx = (idx + delta + len(a.visible)) % len(a.visible)
	}
	if err := a.store.SelectConversation(a.visible[idx].ID); err != nil {
		return a, a.setStatus(err.Error(), true)
	}
	a.refresh()
	return a, tea.Batch(a.updateViewport(true)...)
}

func (a App) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Close):
		a.closeRename()
		return a, nil
	case key.Matches(msg, a.keys.Send):
		title := strings.TrimSpace(a.renameInput.Value())
		if title != "" {
			a.store.EditConversationTitle(a.state.ActiveID, title)
			a.refresh()
		}
		a.closeRename()
		return a, nil
	}

	var cmd tea.Cmd
	a.renameInput, cmd = a.renameInput.Update(msg)
	return a, cmd
}

func (a *App) closeRename() {
	a.mode = modeChat
	a.renameInput.Blur()
	a.renameInput.Reset()
	a.input.Focus()
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Close):
		a.filterInput.Reset()
		a.filterInput.Blur()
		a.mode = modeChat
		a.input.Focus()
		a.refresh()
		return a, nil
	case key.Matches(msg, a.keys.Send):
		// Keep the filter applied; select the best match.
		a.filterInput.Blur()
		a.mode = modeChat
		a.input.Focus()
		if len(a.visible) > 0 && a.selectedIndex() < 0 {
			_ = a.store.SelectConversation(a.visible[0].ID)
			a.refresh()
		}
		return a, tea.Batch(a.updateViewport(true)...)
	case key.Matches(msg, a.keys.NextConversation):
		return a.moveSelection(1)
	case key.Matches(msg, a.keys.PrevConversation):
		return a.moveSelection(-1)
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.refresh()
	return a, cmd
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		state := a.confirm
		a.confirm = ConfirmationState{}
		a.mode = modeChat
		switch state.Action {
		case confirmDelete:
			a.store.DeleteConversation(state.Target)
			a.refresh()
			return a, tea.Batch(a.updateViewport(true)...)
		case confirmProLogout:
			a.pro.Deactivate()
			return a, a.setStatus("Pro mode disabled", false)
		}
	case key.Matches(msg, a.keys.Cancel, a.keys.Close):
		a.confirm = ConfirmationState{}
		a.mode = modeChat
	}
	return a, nil
}

func (a App) openPro() (tea.Model, tea.Cmd) {
	if a.pro == nil {
		return a, a.setStatus("Pro mode is not available", true)
	}
	if a.pro.Enabled() {
		a.mode = modeConfirm
		a.confirm = ConfirmationState{
			Active:  true,
			Title:   "Pro mode",
			Message: "Disattivare la modalità Pro?",
			Action:  confirmProLogout,
		}
		return a, nil
	}
	a.mode = modePro
	a.proErr = ""
	a.proFocus = 0
	a.proUser.Reset()
	a.proPass.Reset()
	a.proPass.Blur()
	a.input.Blur()
	return a, a.proUser.Focus()
}

func (a App) updatePro(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closePro()
		return a, nil
	case "tab", "shift+tab", "up", "down":
		return a, a.toggleProFocus()
	case "enter":
		if a.proFocus == 0 {
			return a, a.toggleProFocus()
		}
		err := a.pro.Activate(strings.TrimSpace(a.proUser.Value()), a.proPass.Value())
		switch {
		case errors.Is(err, config.ErrProNotConfigured):
			a.proErr = "Modalità Pro non configurata."
			return a, nil
		case err != nil:
			a.proErr = "Username o password non corretti. Riprova."
			a.proPass.Reset()
			return a, nil
		}
		a.closePro()
		return a, a.setStatus("Pro mode enabled", false)
	}

	var cmd tea.Cmd
	if a.proFocus == 0 {
		a.proUser, cmd = a.proUser.Update(msg)
	} else {
		a.proPass, cmd = a.proPass.Update(msg)
	}
	return a, cmd
}

func (a *App) toggleProFocus() tea.Cmd {
	if a.proFocus == 0 {
		a.proFocus = 1
		a.proUser.Blur()
		return a.proPass.Focus()
	}
	a.proFocus = 0
	a.proPass.Blur()
	return a.proUser.Focus()
}

func (a *App) closePro() {
	a.mode = modeChat
	a.proErr = ""
	a.proUser.Blur()
	a.proPass.Blur()
	a.proUser.Reset()
	a.proPass.Reset()
	a.input.Focus()
}

func (a *App) setStatus(text string, isError bool) tea.Cmd {
	a.statusSeq++
	a.status = text
	a.statusErr = isError
	seq := a.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func sendCmd(store *chat.Store, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := store.SendMessage(context.Background(), content)
		return replyDoneMsg{err: err}
	}
}

func regenerateCmd(store *chat.Store, messageID string) tea.Cmd {
	return func() tea.Msg {
		_, err := store.RegenerateMessage(context.Background(), messageID)
		return replyDoneMsg{err: err}
	}
}

func replyErrorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound), errors.Is(err, chat.ErrNoActiveConversation):
		return "The conversation is no longer available"
	case errors.Is(err, chat.ErrMessageNotFound):
		return "That reply no longer exists"
	default:
		return err.Error()
	}
}
