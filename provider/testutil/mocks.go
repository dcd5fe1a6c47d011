package testutil

import (
	"context"
	"sync"

	"willchat/model"
)

// MockCompleter implements provider.Provider for testing. Every call is
// recorded before CompleteFunc runs.
type MockCompleter struct {
	// Configurable response
	CompleteFunc func(ctx context.Context, messages []model.ChatMessage) (string, error)

	mu           sync.Mutex
	calls        [][]model.ChatMessage
	currentModel string
}

// NewMockCompleter creates a mock that answers every call with reply.
func NewMockCompleter(reply string) *MockCompleter {
	return &MockCompleter{
		CompleteFunc: func(ctx context.Context, messages []model.ChatMessage) (string, error) {
			return reply, nil
		},
		currentModel: "mock-model",
	}
}

// NewFailingCompleter creates a mock whose every call fails with err.
func NewFailingCompleter(err error) *MockCompleter {
	m := NewMockCompleter("")
	m.CompleteFunc = func(ctx context.Context, messages []model.ChatMessage) (string, error) {
		return "", err
	}
	return m
}

func (m *MockCompleter) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	m.mu.Lock()
	recorded := make([]model.ChatMessage, len(messages))
	copy(recorded, messages)
	m.calls = append(m.calls, recorded)
	fn := m.CompleteFunc
	m.mu.Unlock()

	return fn(ctx, messages)
}

// Calls returns every transcript received so far, oldest first.
func (m *MockCompleter) Calls() [][]model.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]model.ChatMessage, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent transcript, or nil.
func (m *MockCompleter) LastCall() []model.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

func (m *MockCompleter) Name() string {
	return "Mock"
}

func (m *MockCompleter) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockCompleter) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}
