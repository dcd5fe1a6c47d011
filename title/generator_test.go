package title

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/model"
	"willchat/provider/testutil"
)

func TestGenerateItalian(t *testing.T) {
	mock := testutil.NewMockCompleter(`"Saluti Quotidiani"`)
	g := NewGenerator(mock)

	title, err := g.Generate(context.Background(), "Ciao, come stai oggi?")
	require.NoError(t, err)
	assert.Equal(t, "Saluti Quotidiani", title)

	call := mock.LastCall()
	require.Len(t, call, 2)
	assert.Equal(t, model.RoleSystem, call[0].Role)
	assert.Contains(t, call[0].Content, "generatore di titoli")
	assert.Equal(t, model.RoleUser, call[1].Role)
	assert.Contains(t, call[1].Content, "Ciao, come stai oggi?")
	assert.True(t, testutil.IsTitleRequest(call))
}

func TestGenerateFallbackOnFailure(t *testing.T) {
	g := NewGenerator(testutil.NewFailingCompleter(errors.New("boom")))

	title, err := g.Generate(context.Background(), "Ciao, come stai oggi?")
	require.NoError(t, err)
	assert.Equal(t, "Ciao, come stai", title)
}

func TestGenerateEmptyReply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"falls back to words", "Explain the Go memory model please", "Explain the Go"},
		{"blank italian input", "   ", "Nuova Chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(testutil.NewMockCompleter(`  ""  `))
			title, err := g.Generate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, title)
		})
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	mock := testutil.NewMockCompleter("Never Used")
	g := NewGenerator(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	title, err := g.Generate(ctx, "hello there friend of mine")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "hello there friend", title)
	assert.Zero(t, mock.CallCount())
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go Concurrency Basics", "Go Concurrency Basics"},
		{"  'Ricetta Carbonara'\n", "Ricetta Carbonara"},
		{"“Viaggio in Giappone”", "Viaggio in Giappone"},
		{"one two three four five six", "one two three four"},
		{"dell'utente", "dell'utente"},
		{`""`, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), tt.in)
	}
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "Nuova Chat", Fallback("", Italian))
	assert.Equal(t, "New Chat", Fallback("", English))
	assert.Equal(t, "a b", Fallback("a b", English))
}
