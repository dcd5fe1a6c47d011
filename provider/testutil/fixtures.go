package testutil

import (
	"context"
	"strings"

	"willchat/model"
)

// TestTranscript returns a sample transcript for testing
func TestTranscript() []model.ChatMessage {
	return []model.ChatMessage{
		{Role: model.RoleSystem, Content: "You are a helpful assistant."},
		{Role: model.RoleUser, Content: "Hello, how are you?"},
		{Role: model.RoleAssistant, Content: "I'm doing well, thank you!"},
		{Role: model.RoleUser, Content: "Can you help me with a task?"},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.ChatMessage {
	return []model.ChatMessage{{Role: model.RoleUser, Content: content}}
}

// Gate makes completions block until released, so tests can observe
// in-flight state.
type Gate struct {
	Started chan struct{}
	release chan struct{}
}

func NewGate() *Gate {
	return &Gate{Started: make(chan struct{}, 16), release: make(chan struct{})}
}

// Release unblocks every pending and future call.
func (g *Gate) Release() {
	close(g.release)
}

// Wrap returns a CompleteFunc that signals Started, waits for Release (or
// ctx), then answers with reply.
func (g *Gate) Wrap(reply string) func(ctx context.Context, messages []model.ChatMessage) (string, error) {
	return func(ctx context.Context, messages []model.ChatMessage) (string, error) {
		g.Started <- struct{}{}
		select {
		case <-g.release:
			return reply, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// IsTitleRequest reports whether a transcript is a title-generation request
// rather than a chat turn.
func IsTitleRequest(messages []model.ChatMessage) bool {
	if len(messages) == 0 || messages[0].Role != model.RoleSystem {
		return false
	}
	s := strings.ToLower(messages[0].Content)
	return strings.Contains(s, "title") || strings.Contains(s, "titolo") ||
		strings.Contains(s, "titre") || strings.Contains(s, "título") || strings.Contains(s, "titel")
}
