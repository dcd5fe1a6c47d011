package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/config"
	"willchat/model"
	"willchat/storage"
)

const completionBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"created": 1714550000,
	"model": "test-model",
	"choices": [
		{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Ciao! Come posso aiutarti?"}}
	]
}`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvDataDir, config.EnvProvider, config.EnvModel, config.EnvAPIKey, config.EnvDebug, config.EnvOpenRouterAPIKey} {
		t.Setenv(k, "")
	}
}

// newDataDir returns a data directory whose config points the provider at
// baseURL.
func newDataDir(t *testing.T, baseURL string) string {
	t.Helper()
	clearEnv(t)
	dir := t.TempDir()

	cfg := config.DefaultUserConfig()
	cfg.Provider.BaseURL = baseURL
	cfg.Provider.APIKey = "sk-test"
	cfg.Provider.Model = "test-model"
	require.NoError(t, config.SaveUserConfig(cfg, dir))
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedConversations(t *testing.T, dir string, conversations ...model.Conversation) {
	t.Helper()
	kv, err := storage.Open(storage.BackendFile, dir)
	require.NoError(t, err)
	defer kv.Close()
	require.NoError(t, storage.NewPersistence(kv).SaveConversations(conversations))
}

func conversation(id, title string) model.Conversation {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Conversation{
		ID:    id,
		Title: title,
		Messages: []model.Message{
			{ID: id + "-1", Content: "Come si fa il ragù?", Sender: model.SenderUser, Timestamp: now, Status: model.StatusSent},
			{ID: id + "-2", Content: "Con pazienza.", Sender: model.SenderAI, Timestamp: now, Status: model.StatusSent},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAskPrintsReply(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	t.Cleanup(srv.Close)

	dir := newDataDir(t, srv.URL)

	out, err := run(t, "", "--data-dir", dir, "ask", "ciao", "come", "stai?")
	require.NoError(t, err)
	assert.Equal(t, "Ciao! Come posso aiutarti?\n", out)
	// One reply plus the title request for the first message.
	assert.Equal(t, int32(2), calls.Load())

	out, err = run(t, "", "--data-dir", dir, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "*"))
	assert.Contains(t, lines[1], " 2 ")
}

func TestAskReportsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	dir := newDataDir(t, srv.URL)
	_, err := run(t, "", "--data-dir", dir, "ask", "ciao")
	assert.Error(t, err)
}

func TestListSearch(t *testing.T) {
	dir := newDataDir(t, "http://127.0.0.1:0")
	seedConversations(t, dir, conversation("a", "Ricette"), conversation("b", "Viaggi"))

	out, err := run(t, "", "--data-dir", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ricette")
	assert.Contains(t, out, "Viaggi")

	out, err = run(t, "", "--data-dir", dir, "list", "--search", "viag")
	require.NoError(t, err)
	assert.Contains(t, out, "Viaggi")
	assert.NotContains(t, out, "Ricette")
}

func TestExport(t *testing.T) {
	dir := newDataDir(t, "http://127.0.0.1:0")
	seedConversations(t, dir, conversation("a", "Ricette"))
	target := filepath.Join(t.TempDir(), "out", "ricette.json")

	out, err := run(t, "", "--data-dir", dir, "export", "a", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var exported map[string]any
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, "a", exported["id"])
	assert.Equal(t, "Ricette", exported["title"])

	_, err = run(t, "", "--data-dir", dir, "export", "missing", target)
	assert.Error(t, err)
}

func TestProCommands(t *testing.T) {
	dir := newDataDir(t, "http://127.0.0.1:0")

	out, err := run(t, "", "--data-dir", dir, "pro", "hash", "s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2"), "expected a bcrypt hash, got %q", out)

	_, err = run(t, "", "--data-dir", dir, "pro", "activate", "lollo", "s3cret")
	assert.ErrorIs(t, err, config.ErrProNotConfigured)

	_, err = run(t, "s3cret\n", "--data-dir", dir, "pro", "hash", "--save", "lollo")
	require.NoError(t, err)

	_, err = run(t, "", "--data-dir", dir, "pro", "activate", "lollo", "wrong")
	assert.ErrorIs(t, err, config.ErrInvalidCredentials)

	out, err = run(t, "s3cret\n", "--data-dir", dir, "pro", "activate", "lollo")
	require.NoError(t, err)
	assert.Contains(t, out, "Pro mode enabled")

	out, err = run(t, "", "--data-dir", dir, "pro", "deactivate")
	require.NoError(t, err)
	assert.Contains(t, out, "Pro mode disabled")
}

func TestUnknownBackend(t *testing.T) {
	dir := newDataDir(t, "http://127.0.0.1:0")
	_, err := run(t, "", "--data-dir", dir, "--storage", "tape", "list")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestDataDirCommand(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := run(t, "", "data-dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "willchat")+" (default)\n", out)
	assert.NoFileExists(t, config.GetSettingsFilePath())

	target := filepath.Join(home, "chats")
	out, err = run(t, "", "data-dir", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	out, err = run(t, "", "data-dir")
	require.NoError(t, err)
	assert.Equal(t, target+"\n", out)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, target, cfg.DataDir())
}
