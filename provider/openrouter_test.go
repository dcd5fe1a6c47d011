package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/model"
	"willchat/provider/testutil"
)

const completionBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"created": 1714550000,
	"model": "meta-llama/llama-3.1-8b-instruct:free",
	"choices": [
		{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Ciao! Come posso aiutarti?"}}
	]
}`

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenRouterComplete(t *testing.T) {
	var captured struct {
		auth, referer, title string
		body                 map[string]any
	}

	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		captured.auth = r.Header.Get("Authorization")
		captured.referer = r.Header.Get("HTTP-Referer")
		captured.title = r.Header.Get("X-Title")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	})

	p, err := NewOpenRouterProvider(Config{
		BaseURL:  srv.URL,
		APIKey:   "sk-or-test",
		AppURL:   "http://localhost",
		AppTitle: "AI Chat App",
	})
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), testutil.TestTranscript())
	require.NoError(t, err)
	assert.Equal(t, "Ciao! Come posso aiutarti?", reply)

	assert.Equal(t, "Bearer sk-or-test", captured.auth)
	assert.Equal(t, "http://localhost", captured.referer)
	assert.Equal(t, "AI Chat App", captured.title)

	assert.Equal(t, DefaultOpenRouterModel, captured.body["model"])
	assert.Equal(t, 0.7, captured.body["temperature"])
	assert.Equal(t, float64(1000), captured.body["max_tokens"])

	messages, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 4)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "assistant", messages[2].(map[string]any)["role"])
}

func TestOpenRouterMissingAPIKey(t *testing.T) {
	var hits atomic.Int32
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	p, err := NewOpenRouterProvider(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, hits.Load(), "no request without a credential")
}

func TestOpenRouterAPIError(t *testing.T) {
	var hits atomic.Int32
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "code": 429}}`))
	})

	p, err := NewOpenRouterProvider(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %T: %v", err, err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.Equal(t, int32(1), hits.Load(), "requests are never retried")
}

func TestOpenRouterNoChoices(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "gen-1", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	})

	p, err := NewOpenRouterProvider(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenRouterTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewOpenRouterProvider(Config{BaseURL: url, APIKey: "k"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("hi"))
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.NotErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIUsesModelSwitch(t *testing.T) {
	var gotModel atomic.Value
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel.Store(body["model"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	})

	p, err := NewOpenAIProvider(Config{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	p.SetModel("gpt-4o")
	_, err = p.Complete(context.Background(), []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotModel.Load())
}
