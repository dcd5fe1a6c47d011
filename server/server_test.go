package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/chat"
	"willchat/config"
	"willchat/model"
	"willchat/provider/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedTitle string

func (f fixedTitle) Generate(ctx context.Context, firstMessage string) (string, error) {
	return string(f), nil
}

func newTestServer(t *testing.T, completer *testutil.MockCompleter) (*Server, *chat.Store) {
	t.Helper()
	store := chat.NewStore(completer, nil, chat.WithTitleGenerator(fixedTitle("Greetings")))
	t.Cleanup(store.Wait)

	hash, err := config.HashPassword("s3cret")
	require.NoError(t, err)
	pro := chat.NewProMode(config.ProConfig{Username: "lollo", PasswordHash: hash, Model: "pro-model"}, nil, completer)

	return New(store, pro), store
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, testutil.NewMockCompleter("ok"))
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetState(t *testing.T) {
	s, store := newTestServer(t, testutil.NewMockCompleter("ok"))
	rec := do(t, s, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[stateDTO](t, rec)
	require.Len(t, state.Conversations, 1)
	assert.Equal(t, store.ActiveID(), state.ActiveID)
	assert.Equal(t, chat.DefaultTitle, state.Conversations[0].Title)
	assert.False(t, state.Loading)
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		completer  *testutil.MockCompleter
		wantStatus int
		wantReply  string
		wantState  model.Status
	}{
		{"success", sendMessageRequest{Content: "  hello  "}, testutil.NewMockCompleter("hi there"), http.StatusOK, "hi there", model.StatusSent},
		{"remote failure becomes error bubble", sendMessageRequest{Content: "hello"}, testutil.NewFailingCompleter(errors.New("boom")), http.StatusOK, "Sorry, I encountered an error while processing your message. Please try again.", model.StatusError},
		{"blank content", sendMessageRequest{Content: "   "}, testutil.NewMockCompleter("x"), http.StatusBadRequest, "", ""},
		{"malformed body", "not an object", testutil.NewMockCompleter("x"), http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.completer)
			rec := do(t, s, http.MethodPost, "/api/messages", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, 0, tt.completer.CallCount())
				return
			}

			resp := decode[messageResponse](t, rec)
			assert.Equal(t, tt.wantReply, resp.Message.Content)
			assert.Equal(t, string(tt.wantState), resp.Message.Status)
			require.Len(t, resp.Conversation.Messages, 2)
			assert.Equal(t, "hello", resp.Conversation.Messages[0].Content)
		})
	}
}

func TestSendMessageWhileLoading(t *testing.T) {
	gate := testutil.NewGate()
	completer := testutil.NewMockCompleter("")
	completer.CompleteFunc = gate.Wrap("late")
	s, _ := newTestServer(t, completer)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"content":"first"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		done <- rec
	}()
	<-gate.Started

	rec := do(t, s, http.MethodPost, "/api/messages", sendMessageRequest{Content: "second"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	gate.Release()
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestConcurrentSendsGetOneReply(t *testing.T) {
	gate := testutil.NewGate()
	completer := testutil.NewMockCompleter("")
	completer.CompleteFunc = gate.Wrap("only one")
	s, store := newTestServer(t, completer)

	const n = 8
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{"content":"ciao"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			results <- rec.Code
		}()
	}

	// The winner blocks on the gate, so the first n-1 answers are refusals.
	for i := 0; i < n-1; i++ {
		assert.Equal(t, http.StatusConflict, <-results)
	}
	<-gate.Started
	gate.Release()
	assert.Equal(t, http.StatusOK, <-results)
	assert.Empty(t, gate.Started)

	active, ok := store.ActiveConversation()
	require.True(t, ok)
	assert.Len(t, active.Messages, 2)
}

func TestConversationLifecycle(t *testing.T) {
	s, store := newTestServer(t, testutil.NewMockCompleter("ok"))

	_, err := store.SendMessage(context.Background(), "hello world")
	require.NoError(t, err)
	store.Wait()
	firstID := store.ActiveID()

	rec := do(t, s, http.MethodPost, "/api/conversations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[conversationDTO](t, rec)
	assert.Equal(t, chat.DefaultTitle, created.Title)
	assert.Equal(t, created.ID, store.ActiveID())

	rec = do(t, s, http.MethodGet, "/api/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]conversationSummaryDTO](t, rec)
	require.Len(t, summaries, 2)
	assert.True(t, summaries[0].Active)
	assert.Equal(t, 2, summaries[1].MessageCount)

	rec = do(t, s, http.MethodPost, "/api/conversations/"+firstID+"/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, firstID, store.ActiveID())

	rec = do(t, s, http.MethodPatch, "/api/conversations/"+firstID, renameRequest{Title: "  Renamed  "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[conversationDTO](t, rec).Title)

	rec = do(t, s, http.MethodPatch, "/api/conversations/"+firstID, renameRequest{Title: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPatch, "/api/conversations/missing", renameRequest{Title: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/conversations?q=renamed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	matches := decode[[]matchDTO](t, rec)
	require.NotEmpty(t, matches)
	assert.Equal(t, firstID, matches[0].ConversationID)
	assert.Equal(t, -1, matches[0].MessageIndex)

	rec = do(t, s, http.MethodDelete, "/api/conversations/"+firstID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[stateDTO](t, rec)
	require.Len(t, state.Conversations, 1)
	assert.Equal(t, created.ID, state.ActiveID)

	rec = do(t, s, http.MethodDelete, "/api/conversations/"+firstID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectUnknownConversationIsPermissive(t *testing.T) {
	s, store := newTestServer(t, testutil.NewMockCompleter("ok"))
	rec := do(t, s, http.MethodPost, "/api/conversations/ghost/select", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ghost", store.ActiveID())

	rec = do(t, s, http.MethodPost, "/api/messages", sendMessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportConversation(t *testing.T) {
	s, store := newTestServer(t, testutil.NewMockCompleter("ok"))
	_, err := store.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	store.Wait()
	id := store.ActiveID()

	rec := do(t, s, http.MethodGet, "/api/conversations/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `willchat-Greetings.json`)

	exported := decode[conversationDTO](t, rec)
	assert.Equal(t, id, exported.ID)
	assert.Len(t, exported.Messages, 2)

	rec = do(t, s, http.MethodGet, "/api/conversations/missing/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegenerateMessage(t *testing.T) {
	completer := testutil.NewMockCompleter("first answer")
	s, store := newTestServer(t, completer)
	reply, err := store.SendMessage(context.Background(), "hello")
	require.NoError(t, err)

	completer.CompleteFunc = func(ctx context.Context, messages []model.ChatMessage) (string, error) {
		return "second answer", nil
	}

	rec := do(t, s, http.MethodPost, "/api/messages/"+reply.ID+"/regenerate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[messageResponse](t, rec)
	assert.Equal(t, "second answer", resp.Message.Content)
	require.Len(t, resp.Conversation.Messages, 2)
	assert.Equal(t, "second answer", resp.Conversation.Messages[1].Content)

	rec = do(t, s, http.MethodPost, "/api/messages/unknown/regenerate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProMode(t *testing.T) {
	completer := testutil.NewMockCompleter("ok")
	s, _ := newTestServer(t, completer)

	rec := do(t, s, http.MethodGet, "/api/pro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[proDTO](t, rec).Enabled)

	rec = do(t, s, http.MethodPost, "/api/pro", proRequest{Username: "lollo", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/pro", map[string]string{"username": "lollo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/pro", proRequest{Username: "lollo", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[proDTO](t, rec)
	assert.True(t, got.Enabled)
	assert.Equal(t, "pro-model", got.Model)
	assert.Equal(t, "pro-model", completer.GetModel())

	rec = do(t, s, http.MethodDelete, "/api/pro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[proDTO](t, rec).Enabled)
	assert.Equal(t, "mock-model", completer.GetModel())
}

func TestProModeUnavailable(t *testing.T) {
	store := chat.NewStore(testutil.NewMockCompleter("ok"), nil)
	s := New(store, nil)
	rec := do(t, s, http.MethodGet, "/api/pro", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, testutil.NewMockCompleter("ok"))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-errCh)
}
