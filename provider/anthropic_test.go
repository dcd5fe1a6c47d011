package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/provider/testutil"
)

func TestAnthropicComplete(t *testing.T) {
	var body map[string]any
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Bonjour"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 2}
		}`))
	})

	p, err := NewAnthropicProvider(Config{BaseURL: srv.URL, APIKey: "sk-ant"})
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), testutil.TestTranscript())
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", reply)

	assert.Equal(t, float64(DefaultMaxTokens), body["max_tokens"])
	messages := body["messages"].([]any)
	assert.Len(t, messages, 3, "system entry moves out of messages")
	system := body["system"].([]any)
	require.Len(t, system, 1)
	assert.Equal(t, "You are a helpful assistant.", system[0].(map[string]any)["text"])
}

func TestAnthropicErrors(t *testing.T) {
	p, err := NewAnthropicProvider(Config{})
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	})

	p, err = NewAnthropicProvider(Config{BaseURL: srv.URL, APIKey: "bad"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %T: %v", err, err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
