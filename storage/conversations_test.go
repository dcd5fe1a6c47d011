package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willchat/model"
)

func sampleConversation() model.Conversation {
	base := time.Date(2024, 5, 1, 10, 30, 0, 123456789, time.FixedZone("CEST", 2*3600))
	return model.Conversation{
		ID:    "c1",
		Title: "Ciao come stai",
		Messages: []model.Message{
			{ID: "m1", Content: "Ciao, come stai oggi?", Sender: model.SenderUser, Timestamp: base, Status: model.StatusSent},
			{ID: "m2", Content: "Bene, grazie!", Sender: model.SenderAI, Timestamp: base.Add(time.Second)},
		},
		CreatedAt: base,
		UpdatedAt: base.Add(time.Second),
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := NewPersistence(NewMemoryKV())
	in := []model.Conversation{sampleConversation(), {
		ID:        "c2",
		Title:     "New chat",
		Messages:  []model.Message{},
		CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}}

	require.NoError(t, p.SaveConversations(in))

	out, err := p.LoadConversations()
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := out[0]
	want := in[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.True(t, want.CreatedAt.Truncate(time.Millisecond).Equal(got.CreatedAt))
	assert.True(t, want.UpdatedAt.Truncate(time.Millisecond).Equal(got.UpdatedAt))
	require.Len(t, got.Messages, 2)
	for i := range want.Messages {
		assert.Equal(t, want.Messages[i].ID, got.Messages[i].ID)
		assert.Equal(t, want.Messages[i].Content, got.Messages[i].Content)
		assert.Equal(t, want.Messages[i].Sender, got.Messages[i].Sender)
		assert.Equal(t, want.Messages[i].Status, got.Messages[i].Status)
		assert.True(t, want.Messages[i].Timestamp.Truncate(time.Millisecond).Equal(got.Messages[i].Timestamp))
	}

	assert.Equal(t, "c2", out[1].ID)
	assert.Empty(t, out[1].Messages)
}

func TestPersistenceWireFormat(t *testing.T) {
	kv := NewMemoryKV()
	p := NewPersistence(kv)
	require.NoError(t, p.SaveConversations([]model.Conversation{sampleConversation()}))

	raw, ok, err := kv.Get(ConversationsKey)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)

	conv := decoded[0]
	assert.Equal(t, "2024-05-01T08:30:00.123Z", conv["createdAt"])
	assert.Equal(t, "2024-05-01T08:30:01.123Z", conv["updatedAt"])

	messages := conv["messages"].([]any)
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	assert.Equal(t, "user", first["sender"])
	assert.Equal(t, "sent", first["status"])
	assert.Equal(t, "ai", second["sender"])
	assert.NotContains(t, second, "status")
}

func TestSaveEmptyRemovesKeys(t *testing.T) {
	kv := NewMemoryKV()
	p := NewPersistence(kv)

	require.NoError(t, p.SaveConversations([]model.Conversation{sampleConversation()}))
	require.NoError(t, p.SaveActiveConversationID("c1"))

	require.NoError(t, p.SaveConversations(nil))
	require.NoError(t, p.SaveActiveConversationID(""))

	_, ok, _ := kv.Get(ConversationsKey)
	assert.False(t, ok)
	_, ok, _ = kv.Get(ActiveConversationKey)
	assert.False(t, ok)

	out, err := p.LoadConversations()
	require.NoError(t, err)
	assert.Empty(t, out)

	id, err := p.LoadActiveConversationID()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestLoadConversationsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"bad timestamp", `[{"id":"c","title":"t","messages":[],"createdAt":"yesterday","updatedAt":"2024-05-01T08:30:00.000Z"}]`},
		{"bad message timestamp", `[{"id":"c","title":"t","messages":[{"id":"m","content":"x","sender":"user","timestamp":""}],"createdAt":"2024-05-01T08:30:00.000Z","updatedAt":"2024-05-01T08:30:00.000Z"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ConversationsKey, tt.raw))

			_, err := NewPersistence(kv).LoadConversations()
			assert.Error(t, err)
		})
	}
}

func TestLoadConversationsSkipsDamagedRecords(t *testing.T) {
	kv := NewMemoryKV()
	raw := `[` +
		`{"id":"bad","title":"t","messages":[],"createdAt":"bad","updatedAt":"2024-05-01T08:30:00.000Z"},` +
		`{"id":"good","title":"Ricette","messages":[],"createdAt":"2024-05-01T08:30:00.000Z","updatedAt":"2024-05-01T08:30:00.000Z"}` +
		`]`
	require.NoError(t, kv.Set(ConversationsKey, raw))

	out, err := NewPersistence(kv).LoadConversations()
	assert.ErrorIs(t, err, ErrDamagedRecords)
	require.Len(t, out, 1)
	assert.Equal(t, "good", out[0].ID)
}

func TestBackupConversations(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	t.Run("nothing stored", func(t *testing.T) {
		key, err := NewPersistence(NewMemoryKV()).BackupConversations(now)
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("plain", func(t *testing.T) {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ConversationsKey, "{oops"))

		key, err := NewPersistence(kv).BackupConversations(now)
		require.NoError(t, err)
		assert.Equal(t, BackupKey(now), key)

		raw, ok, _ := kv.Get(key)
		require.True(t, ok)
		assert.Equal(t, "{oops", raw)
	})

	t.Run("sealed value is copied as stored", func(t *testing.T) {
		inner := NewMemoryKV()
		require.NoError(t, inner.Set(ConversationsKey, "not-base64!"))
		enc := NewEncryptedKV(inner, xorCipher{})

		_, err := NewPersistence(enc).LoadConversations()
		require.Error(t, err)

		key, err := NewPersistence(enc).BackupConversations(now)
		require.NoError(t, err)
		raw, ok, _ := inner.Get(key)
		require.True(t, ok)
		assert.Equal(t, "not-base64!", raw)
	})
}

func TestProModePersistence(t *testing.T) {
	kv := NewMemoryKV()
	p := NewPersistence(kv)

	enabled, err := p.LoadProMode()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, p.SaveProMode(true))
	enabled, err = p.LoadProMode()
	require.NoError(t, err)
	assert.True(t, enabled)

	raw, _, _ := kv.Get(ProModeKey)
	assert.Equal(t, "true", raw)
}

func TestParseTimestampAcceptsOffsets(t *testing.T) {
	ts, err := ParseTimestamp("2024-05-01T10:30:00.5+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T08:30:00.500Z", FormatTimestamp(ts))
}
