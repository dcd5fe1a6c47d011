package ui

// stateChangedMsg is sent whenever the store reports a mutation.
type stateChangedMsg struct{}

// replyDoneMsg ends a send or regenerate started from the UI.
type replyDoneMsg struct {
	err error
}

type markdownRenderedMsg struct {
	key      renderKey
	rendered string
}

type statusMsg struct {
	text    string
	isError bool
}

type clearStatusMsg struct {
	seq int
}
