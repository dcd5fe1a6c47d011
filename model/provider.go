package model

import "context"

// Role is the speaker role understood by completion APIs.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one role-tagged entry of a completion transcript.
type ChatMessage struct {
	Role    Role
	Content string
}

// Completer abstracts the remote completion endpoint.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the chat and title
// packages depend on Completer without importing any concrete provider.
type Completer interface {
	// Complete sends the transcript and returns the first generated reply.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ModelSwitcher is implemented by completers whose target model can be
// changed at runtime.
type ModelSwitcher interface {
	GetModel() string
	SetModel(model string)
}
