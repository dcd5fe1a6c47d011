package model

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Status is the transient delivery state of a message. The zero value means
// there is nothing to show.
type Status string

const (
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusError   Status = "error"
)

// Message represents a chat message in a conversation
type Message struct {
	ID        string
	Content   string
	Sender    Sender
	Timestamp time.Time
	Status    Status
}

// Role maps the sender onto the completion API role.
func (m Message) Role() Role {
	if m.Sender == SenderUser {
		return RoleUser
	}
	return RoleAssistant
}

// Conversation is an ordered thread of messages. Message order is both the
// display order and the context order sent to the completion API.
type Conversation struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that shares no message storage with c.
func (c Conversation) Clone() Conversation {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

// IsEmpty reports whether the conversation has no messages yet.
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// IndexOf returns the position of the message with the given id, or -1.
func (c Conversation) IndexOf(messageID string) int {
	for i, m := range c.Messages {
		if m.ID == messageID {
			return i
		}
	}
	return -1
}

// LastReply returns the most recent assistant message, if any.
func (c Conversation) LastReply() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderAI {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}
