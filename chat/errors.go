package chat

import "errors"

var (
	// ErrNoActiveConversation means the store has no active pointer. The
	// store keeps one by construction, so callers should treat it as a bug.
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)
