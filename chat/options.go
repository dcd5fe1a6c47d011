package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTitle         = "New chat"
	DefaultContextWindow = 10
	DefaultTitleTimeout  = 30 * time.Second
)

// TitleGenerator names a conversation from its first message. The returned
// title is applied whenever it is non-empty, even alongside an error.
type TitleGenerator interface {
	Generate(ctx context.Context, firstMessage string) (string, error)
}

type Option func(*Store)

// WithStrictSelect makes SelectConversation reject unknown ids.
func WithStrictSelect() Option {
	return func(s *Store) { s.strictSelect = true }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDSource(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithSystemPrompt(prompt string) Option {
	return func(s *Store) {
		if prompt != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithContextWindow caps how many trailing messages SendMessage forwards.
// Values below one keep the default.
func WithContextWindow(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.contextWindow = n
		}
	}
}

func WithTitleGenerator(g TitleGenerator) Option {
	return func(s *Store) { s.titles = g }
}

func WithTitleTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.titleTimeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}
