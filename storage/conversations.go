package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"willchat/model"
)

const (
	ConversationsKey      = "willchat.conversations"
	ActiveConversationKey = "willchat.active-conversation"
	ProModeKey            = "willchat.pro-mode"
)

// ErrDamagedRecords reports conversations that were skipped while loading.
var ErrDamagedRecords = errors.New("damaged conversation records")

// BackupKey names the copy of an unreadable conversation list taken at t.
func BackupKey(t time.Time) string {
	return ConversationsKey + ".corrupt." + t.UTC().Format("20060102T150405.000")
}

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

type messageRecord struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status,omitempty"`
}

type conversationRecord struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  []messageRecord `json:"messages"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func toRecord(c model.Conversation) conversationRecord {
	rec := conversationRecord{
		ID:        c.ID,
		Title:     c.Title,
		Messages:  make([]messageRecord, 0, len(c.Messages)),
		CreatedAt: FormatTimestamp(c.CreatedAt),
		UpdatedAt: FormatTimestamp(c.UpdatedAt),
	}
	for _, m := range c.Messages {
		rec.Messages = append(rec.Messages, messageRecord{
			ID:        m.ID,
			Content:   m.Content,
			Sender:    string(m.Sender),
			Timestamp: FormatTimestamp(m.Timestamp),
			Status:    string(m.Status),
		})
	}
	return rec
}

func fromRecord(rec conversationRecord) (model.Conversation, error) {
	createdAt, err := ParseTimestamp(rec.CreatedAt)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("conversation %s: %w", rec.ID, err)
	}
	updatedAt, err := ParseTimestamp(rec.UpdatedAt)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("conversation %s: %w", rec.ID, err)
	}

	c := model.Conversation{
		ID:        rec.ID,
		Title:     rec.Title,
		Messages:  make([]model.Message, 0, len(rec.Messages)),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for _, m := range rec.Messages {
		ts, err := ParseTimestamp(m.Timestamp)
		if err != nil {
			return model.Conversation{}, fmt.Errorf("message %s: %w", m.ID, err)
		}
		c.Messages = append(c.Messages, model.Message{
			ID:        m.ID,
			Content:   m.Content,
			Sender:    model.Sender(m.Sender),
			Timestamp: ts,
			Status:    model.Status(m.Status),
		})
	}
	return c, nil
}

// MarshalConversation encodes c in the persisted record format.
func MarshalConversation(c model.Conversation, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(toRecord(c), "", "  ")
	}
	return json.Marshal(toRecord(c))
}

// Persistence maps conversation state onto a KeyValue store.
type Persistence struct {
	kv KeyValue
}

func NewPersistence(kv KeyValue) *Persistence {
	return &Persistence{kv: kv}
}

// LoadConversations returns the stored list, or an empty list when nothing
// has been saved yet. Records that cannot be decoded are skipped and
// reported with ErrDamagedRecords alongside the readable ones.
func (p *Persistence) LoadConversations() ([]model.Conversation, error) {
	raw, ok, err := p.kv.Get(ConversationsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	if !ok {
		return []model.Conversation{}, nil
	}

	var records []conversationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to parse conversations: %w", err)
	}

	conversations := make([]model.Conversation, 0, len(records))
	var damaged []error
	for _, rec := range records {
		c, err := fromRecord(rec)
		if err != nil {
			damaged = append(damaged, err)
			continue
		}
		conversations = append(conversations, c)
	}
	if len(damaged) > 0 {
		return conversations, fmt.Errorf("%w: %w", ErrDamagedRecords, errors.Join(damaged...))
	}
	return conversations, nil
}

// BackupConversations copies the stored conversation list, as the backend
// holds it, to BackupKey(now). Encrypted values are copied still sealed.
// It returns "" when there is nothing to copy.
func (p *Persistence) BackupConversations(now time.Time) (string, error) {
	kv := p.kv
	if u, ok := kv.(interface{ Unwrap() KeyValue }); ok {
		kv = u.Unwrap()
	}

	raw, ok, err := kv.Get(ConversationsKey)
	if err != nil {
		return "", fmt.Errorf("failed to read conversations for backup: %w", err)
	}
	if !ok {
		return "", nil
	}

	key := BackupKey(now)
	if err := kv.Set(key, raw); err != nil {
		return "", fmt.Errorf("failed to back up conversations: %w", err)
	}
	return key, nil
}

// SaveConversations replaces the stored list. An empty list removes the key.
func (p *Persistence) SaveConversations(conversations []model.Conversation) error {
	if len(conversations) == 0 {
		return p.kv.Remove(ConversationsKey)
	}

	records := make([]conversationRecord, 0, len(conversations))
	for _, c := range conversations {
		records = append(records, toRecord(c))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}
	if err := p.kv.Set(ConversationsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}
	return nil
}

// LoadActiveConversationID returns "" when no active id is stored.
func (p *Persistence) LoadActiveConversationID() (string, error) {
	id, _, err := p.kv.Get(ActiveConversationKey)
	if err != nil {
		return "", fmt.Errorf("failed to load active conversation: %w", err)
	}
	return id, nil
}

// SaveActiveConversationID stores id, or removes the key when id is empty.
func (p *Persistence) SaveActiveConversationID(id string) error {
	if id == "" {
		return p.kv.Remove(ActiveConversationKey)
	}
	if err := p.kv.Set(ActiveConversationKey, id); err != nil {
		return fmt.Errorf("failed to save active conversation: %w", err)
	}
	return nil
}

func (p *Persistence) LoadProMode() (bool, error) {
	raw, ok, err := p.kv.Get(ProModeKey)
	if err != nil {
		return false, fmt.Errorf("failed to load pro mode: %w", err)
	}
	if !ok {
		return false, nil
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse pro mode: %w", err)
	}
	return enabled, nil
}

func (p *Persistence) SaveProMode(enabled bool) error {
	return p.kv.Set(ProModeKey, strconv.FormatBool(enabled))
}
