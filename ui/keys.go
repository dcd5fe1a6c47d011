package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"willchat/config"
)

type keyMap struct {
	NewConversation  key.Binding
	NextConversation key.Binding
	PrevConversation key.Binding
	Rename           key.Binding
	Delete           key.Binding
	Search           key.Binding
	Regenerate       key.Binding
	Yank             key.Binding
	ScrollDown       key.Binding
	ScrollUp         key.Binding
	ProMode          key.Binding
	Help             key.Binding
	Quit             key.Binding
	Confirm          key.Binding
	Cancel           key.Binding

	Send  key.Binding
	Close key.Binding
}

func newKeyMap(kb *config.KeyBindingsConfig) keyMap {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	bind := func(action, desc string) key.Binding {
		return key.NewBinding(
			key.WithKeys(kb.GetActionKey(action)),
			key.WithHelp(kb.DisplayActionKey(action), desc),
		)
	}

	return keyMap{
		NewConversation:  bind("new_conversation", "New chat"),
		NextConversation: bind("next_conversation", "Next chat"),
		PrevConversation: bind("prev_conversation", "Previous chat"),
		Rename:           bind("rename", "Rename chat"),
		Delete:           bind("delete", "Delete chat"),
		Search:           bind("search", "Filter chats"),
		Regenerate:       bind("regenerate", "Regenerate last reply"),
		Yank:             bind("yank_last_response", "Copy last reply"),
		ScrollDown:       bind("scroll_down", "Scroll down"),
		ScrollUp:         bind("scroll_up", "Scroll up"),
		ProMode:          bind("pro_mode", "Pro mode"),
		Help:             bind("help", "Toggle help"),
		Quit:             bind("quit", "Quit"),
		Confirm:          bind("confirm", "Yes"),
		Cancel:           bind("cancel", "No"),

		Send:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Close")),
	}
}
