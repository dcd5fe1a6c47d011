// Package chat holds the conversation state shared by the TUI, the HTTP API
// and the CLI: the list of conversations, the active pointer and the
// send/regenerate flows against a completion client.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"willchat/config"
	"willchat/model"
	"willchat/storage"
	"willchat/title"
)

const (
	sendErrorText       = "Sorry, I encountered an error while processing your message. Please try again."
	regenerateErrorText = "Sorry, I encountered an error while regenerating the message. Please try again."
)

// Snapshot is a deep copy of the store state.
type Snapshot struct {
	Conversations []model.Conversation
	ActiveID      string
	Loading       bool
}

// Active returns the active conversation from the snapshot.
func (s Snapshot) Active() (model.Conversation, bool) {
	for _, c := range s.Conversations {
		if c.ID == s.ActiveID {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// Store owns every conversation. All state sits behind one mutex; completion
// calls run outside it and their results are re-resolved by conversation id
// when they land.
type Store struct {
	mu            sync.Mutex
	conversations []model.Conversation
	activeID      string
	inFlight      int

	completer     model.Completer
	titles        TitleGenerator
	persistence   *storage.Persistence
	log           zerolog.Logger
	now           func() time.Time
	newID         func() string
	systemPrompt  string
	contextWindow int
	titleTimeout  time.Duration
	strictSelect  bool

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSub     int

	tasks sync.WaitGroup
}

// NewStore loads persisted state and picks the active conversation: the
// persisted active id if it still exists, else the most recently updated
// conversation, else a fresh one. A nil persistence keeps state in memory.
func NewStore(completer model.Completer, persistence *storage.Persistence, opts ...Option) *Store {
	if persistence == nil {
		persistence = storage.NewPersistence(storage.NewMemoryKV())
	}

	s := &Store{
		completer:     completer,
		persistence:   persistence,
		log:           config.Component("chat"),
		now:           time.Now,
		newID:         newUUID,
		systemPrompt:  config.DefaultSystemPrompt,
		contextWindow: DefaultContextWindow,
		titleTimeout:  DefaultTitleTimeout,
		subscribers:   make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.titles == nil {
		s.titles = title.NewGenerator(completer)
	}

	s.load()
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// load reads persisted state. When the saved state cannot be read in full,
// the raw value is backed up and nothing is written until the next change.
func (s *Store) load() {
	damaged := false
	conversations, err := s.persistence.LoadConversations()
	if err != nil {
		damaged = true
		s.log.Error().Err(err).Int("recovered", len(conversations)).Msg("failed to load conversations")
		if key, err := s.persistence.BackupConversations(s.now()); err != nil {
			s.log.Error().Err(err).Msg("failed to back up conversations")
		} else if key != "" {
			s.log.Warn().Str("key", key).Msg("saved conversations backed up")
		}
	}
	activeID, err := s.persistence.LoadActiveConversationID()
	if err != nil {
		damaged = true
		s.log.Error().Err(err).Msg("failed to load active conversation")
		activeID = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = conversations
	if s.conversations == nil {
		s.conversations = []model.Conversation{}
	}
	switch {
	case activeID != "" && s.indexLocked(activeID) >= 0:
		s.activeID = activeID
	case len(s.conversations) > 0:
		s.activeID = s.mostRecentLocked()
	default:
		c := s.newConversationLocked()
		s.conversations = append(s.conversations, c)
		s.activeID = c.ID
	}

	s.log.Debug().
		Int("conversations", len(s.conversations)).
		Str("active", s.activeID).
		Msg("store loaded")
	if !damaged {
		s.persistLocked()
	}
}

func (s *Store) newConversationLocked() model.Conversation {
	now := s.now()
	return model.Conversation{
		ID:        s.newID(),
		Title:     DefaultTitle,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

// mostRecentLocked returns the id with the latest UpdatedAt. Ties keep the
// earlier list position.
func (s *Store) mostRecentLocked() string {
	best := -1
	for i := range s.conversations {
		if best < 0 || s.conversations[i].UpdatedAt.After(s.conversations[best].UpdatedAt) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return s.conversations[best].ID
}

// persistLocked writes a full snapshot. Failures are logged only.
func (s *Store) persistLocked() {
	if err := s.persistence.SaveConversations(s.conversations); err != nil {
		s.log.Error().Err(err).Msg("failed to persist conversations")
	}
	if err := s.persistence.SaveActiveConversationID(s.activeID); err != nil {
		s.log.Error().Err(err).Msg("failed to persist active conversation")
	}
}

// commit persists, releases the lock and notifies subscribers.
func (s *Store) commit() {
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run after every state change. fn is called
// outside the store lock and may read the store.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Wait blocks until every background title task has finished.
func (s *Store) Wait() {
	s.tasks.Wait()
}

func (s *Store) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Snapshot{
		Conversations: make([]model.Conversation, len(s.conversations)),
		ActiveID:      s.activeID,
		Loading:       s.inFlight > 0,
	}
	for i, c := range s.conversations {
		out.Conversations[i] = c.Clone()
	}
	return out
}

func (s *Store) ActiveConversation() (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.conversations[i].Clone(), true
	}
	return model.Conversation{}, false
}

func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) Conversation(id string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.conversations[i].Clone(), true
	}
	return model.Conversation{}, false
}

// Loading reports whether any completion is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// CreateNewConversation drops every empty conversation, prepends a fresh
// one and makes it active.
func (s *Store) CreateNewConversation() model.Conversation {
	s.mu.Lock()

	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if !c.IsEmpty() {
			kept = append(kept, c)
		}
	}
	c := s.newConversationLocked()
	s.conversations = append([]model.Conversation{c}, kept...)
	s.activeID = c.ID

	s.log.Debug().Str("conversation", c.ID).Msg("conversation created")
	s.commit()
	return c.Clone()
}

// SelectConversation moves the active pointer. Unknown ids are accepted
// unless the store was built WithStrictSelect.
func (s *Store) SelectConversation(id string) error {
	s.mu.Lock()
	if s.strictSelect && s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	s.activeID = id
	s.commit()
	return nil
}

// EditConversationTitle rewrites a title as given. It reports false when no
// conversation has that id.
func (s *Store) EditConversationTitle(id, newTitle string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.conversations[i].Title = newTitle
	s.conversations[i].UpdatedAt = s.now()
	s.commit()
	return true
}

// DeleteConversation removes a conversation. Deleting the active one moves
// the pointer to the most recently updated survivor, or to a fresh
// conversation when none is left.
func (s *Store) DeleteConversation(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)

	if len(s.conversations) == 0 {
		c := s.newConversationLocked()
		s.conversations = []model.Conversation{c}
		s.activeID = c.ID
	} else if s.activeID == id {
		s.activeID = s.mostRecentLocked()
	}

	s.log.Debug().Str("conversation", id).Str("active", s.activeID).Msg("conversation deleted")
	s.commit()
	return true
}

// SendMessage appends content as a user message to the active conversation,
// asks the completion client for a reply and appends it. A failed
// completion becomes an error message in the thread instead of an error
// return. The returned message is the one appended for the reply.
func (s *Store) SendMessage(ctx context.Context, content string) (model.Message, error) {
	s.mu.Lock()
	if s.activeID == "" {
		s.mu.Unlock()
		return model.Message{}, ErrNoActiveConversation
	}
	i := s.indexLocked(s.activeID)
	if i < 0 {
		s.mu.Unlock()
		return model.Message{}, ErrConversationNotFound
	}

	conversationID := s.activeID
	conv := &s.conversations[i]
	first := conv.IsEmpty()
	now := s.now()
	conv.Messages = append(conv.Messages, model.Message{
		ID:        s.newID(),
		Content:   content,
		Sender:    model.SenderUser,
		Timestamp: now,
		Status:    model.StatusSent,
	})
	conv.UpdatedAt = now

	history := conv.Messages
	if len(history) > s.contextWindow {
		history = history[len(history)-s.contextWindow:]
	}
	transcript := s.transcript(history)
	s.inFlight++
	s.commit()

	if first {
		s.startTitleTask(conversationID, content)
	}

	reply := s.complete(ctx, transcript, sendErrorText)

	s.mu.Lock()
	s.inFlight--
	if i := s.indexLocked(conversationID); i >= 0 {
		s.conversations[i].Messages = append(s.conversations[i].Messages, reply)
		s.conversations[i].UpdatedAt = s.now()
	} else {
		s.log.Warn().Str("conversation", conversationID).Msg("conversation gone before reply arrived, dropping reply")
	}
	s.commit()
	return reply, nil
}

// RegenerateMessage discards messageID and everything after it in the active
// conversation, then asks for a fresh reply to the remaining prefix.
func (s *Store) RegenerateMessage(ctx context.Context, messageID string) (model.Message, error) {
	s.mu.Lock()
	i := s.indexLocked(s.activeID)
	if i < 0 {
		s.mu.Unlock()
		return model.Message{}, ErrMessageNotFound
	}
	conversationID := s.activeID
	pos := s.conversations[i].IndexOf(messageID)
	if pos < 0 {
		s.mu.Unlock()
		return model.Message{}, ErrMessageNotFound
	}

	prefix := make([]model.Message, pos)
	copy(prefix, s.conversations[i].Messages[:pos])
	transcript := s.transcript(prefix)
	s.inFlight++
	s.mu.Unlock()
	s.notify()

	reply := s.complete(ctx, transcript, regenerateErrorText)

	s.mu.Lock()
	s.inFlight--
	if i := s.indexLocked(conversationID); i >= 0 {
		s.conversations[i].Messages = append(prefix, reply)
		s.conversations[i].UpdatedAt = s.now()
	} else {
		s.log.Warn().Str("conversation", conversationID).Msg("conversation gone before regenerated reply arrived, dropping reply")
	}
	s.commit()
	return reply, nil
}

func (s *Store) transcript(history []model.Message) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(history)+1)
	out = append(out, model.ChatMessage{Role: model.RoleSystem, Content: s.systemPrompt})
	for _, m := range history {
		out = append(out, model.ChatMessage{Role: m.Role(), Content: m.Content})
	}
	return out
}

// complete runs one completion and turns the outcome into an ai message.
func (s *Store) complete(ctx context.Context, transcript []model.ChatMessage, apology string) model.Message {
	text, err := s.completer.Complete(ctx, transcript)

	s.mu.Lock()
	msg := model.Message{
		ID:        s.newID(),
		Sender:    model.SenderAI,
		Timestamp: s.now(),
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Int("transcript", len(transcript)).Msg("completion failed")
		msg.Content = apology
		msg.Status = model.StatusError
		return msg
	}
	msg.Content = text
	msg.Status = model.StatusSent
	return msg
}

// startTitleTask names the conversation in the background. It is detached
// from the caller's context and bounded by the title timeout.
func (s *Store) startTitleTask(conversationID, firstMessage string) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.titleTimeout)
		defer cancel()

		newTitle, err := s.titles.Generate(ctx, firstMessage)
		if err != nil {
			s.log.Warn().Err(err).Str("conversation", conversationID).Msg("title generation did not complete")
		}
		if newTitle == "" {
			return
		}

		s.mu.Lock()
		i := s.indexLocked(conversationID)
		if i < 0 {
			s.mu.Unlock()
			s.log.Warn().Str("conversation", conversationID).Msg("conversation gone before title arrived, dropping title")
			return
		}
		s.conversations[i].Title = newTitle
		s.conversations[i].UpdatedAt = s.now()
		s.commit()
	}()
}
