// Package ui is the terminal front end: a conversation sidebar, the active
// thread and an input box, all driven by a chat.Store.
package ui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"willchat/chat"
	"willchat/config"
	"willchat/model"
	"willchat/storage"
)

type mode int

const (
	modeChat mode = iota
	modeRename
	modeFilter
	modeConfirm
	modePro
	modeHelp
)

const (
	minSidebarWidth = 24
	maxSidebarWidth = 36
	inputHeight     = 3
)

type App struct {
	store *chat.Store
	pro   *chat.ProMode
	keys  keyMap
	log   zerolog.Logger

	state    chat.Snapshot
	visible  []model.Conversation
	mode     mode
	width    int
	height   int
	ready    bool
	sending  bool
	version  string
	rendered map[renderKey]string
	pending  map[renderKey]bool

	viewport    viewport.Model
	input       textarea.Model
	spinner     spinner.Model
	renameInput textinput.Model
	filterInput textinput.Model
	proUser     textinput.Model
	proPass     textinput.Model
	proFocus    int
	proErr      string
	confirm     ConfirmationState

	status    string
	statusErr bool
	statusSeq int

	writeClipboard func(string) error
}

func New(store *chat.Store, pro *chat.ProMode, kb *config.KeyBindingsConfig, version string) App {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.SetWidth(80)
	// Alt+Enter for newline, Enter alone sends
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	renameInput := textinput.New()
	renameInput.Prompt = "Title: "
	renameInput.CharLimit = 100

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	proUser := textinput.New()
	proUser.Placeholder = "Username"
	proUser.Width = 40
	proUser.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		store:          store,
		pro:            pro,
		keys:           newKeyMap(kb),
		log:            config.Component("ui"),
		version:        version,
		rendered:       make(map[renderKey]string),
		pending:        make(map[renderKey]bool),
		viewport:       viewport.New(0, 0),
		input:          ta,
		spinner:        sp,
		renameInput:    renameInput,
		filterInput:    filterInput,
		proUser:        proUser,
		proPass:        NewPassphraseInput("Password"),
		writeClipboard: clipboard.WriteAll,
	}
	a.refresh()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.spinner.Tick)
}

// Run starts the program and forwards store changes into it until the user
// quits.
func Run(store *chat.Store, pro *chat.ProMode, kb *config.KeyBindingsConfig, version string) error {
	p := tea.NewProgram(New(store, pro, kb, version), tea.WithAltScreen())

	// Send from a goroutine: listeners run on whatever goroutine mutated the
	// store, which may be the program's own update loop.
	unsubscribe := store.Subscribe(func() {
		go p.Send(stateChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

// refresh re-reads the store and rebuilds derived view state.
func (a *App) refresh() {
	a.state = a.store.State()
	a.visible = storage.FilterConversations(a.state.Conversations, a.filterInput.Value())
}

func (a App) activeConversation() (model.Conversation, bool) {
	return a.state.Active()
}

// selectedIndex is the active conversation's position in the sidebar, or -1.
func (a App) selectedIndex() int {
	for i, c := range a.visible {
		if c.ID == a.state.ActiveID {
			return i
		}
	}
	return -1
}

func (a App) sidebarWidth() int {
	w := a.width / 4
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > maxSidebarWidth {
		w = maxSidebarWidth
	}
	return w
}

func (a App) threadWidth() int {
	w := a.width - a.sidebarWidth() - 3
	if w < 20 {
		w = 20
	}
	return w
}

func (a *App) layout() {
	headerHeight := 2
	footerHeight := inputHeight + 2
	vpHeight := a.height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	a.viewport.Width = a.threadWidth()
	a.viewport.Height = vpHeight
	a.input.SetWidth(a.threadWidth())
}

func (a App) loading() bool {
	return a.sending || a.state.Loading
}
