package server

import (
	"willchat/chat"
	"willchat/model"
	"willchat/storage"
)

type messageDTO struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status,omitempty"`
}

type conversationDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDTO `json:"messages"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

type conversationSummaryDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	MessageCount int    `json:"messageCount"`
	UpdatedAt    string `json:"updatedAt"`
	Active       bool   `json:"active"`
}

type stateDTO struct {
	Conversations []conversationDTO `json:"conversations"`
	ActiveID      string            `json:"activeConversationId"`
	Loading       bool              `json:"loading"`
}

type matchDTO struct {
	ConversationID string `json:"conversationId"`
	Title          string `json:"title"`
	MessageIndex   int    `json:"messageIndex"`
	Sender         string `json:"sender,omitempty"`
	Preview        string `json:"preview,omitempty"`
	Timestamp      string `json:"timestamp"`
}

type messageResponse struct {
	Message      messageDTO      `json:"message"`
	Conversation conversationDTO `json:"conversation"`
}

type proDTO struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type proRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func toMessageDTO(m model.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		Content:   m.Content,
		Sender:    string(m.Sender),
		Timestamp: storage.FormatTimestamp(m.Timestamp),
		Status:    string(m.Status),
	}
}

func toConversationDTO(c model.Conversation) conversationDTO {
	out := conversationDTO{
		ID:        c.ID,
		Title:     c.Title,
		Messages:  make([]messageDTO, 0, len(c.Messages)),
		CreatedAt: storage.FormatTimestamp(c.CreatedAt),
		UpdatedAt: storage.FormatTimestamp(c.UpdatedAt),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, toMessageDTO(m))
	}
	return out
}

func toStateDTO(s chat.Snapshot) stateDTO {
	out := stateDTO{
		Conversations: make([]conversationDTO, 0, len(s.Conversations)),
		ActiveID:      s.ActiveID,
		Loading:       s.Loading,
	}
	for _, c := range s.Conversations {
		out.Conversations = append(out.Conversations, toConversationDTO(c))
	}
	return out
}

func toSummaries(s chat.Snapshot) []conversationSummaryDTO {
	out := make([]conversationSummaryDTO, 0, len(s.Conversations))
	for _, c := range s.Conversations {
		out = append(out, conversationSummaryDTO{
			ID:           c.ID,
			Title:        c.Title,
			MessageCount: len(c.Messages),
			UpdatedAt:    storage.FormatTimestamp(c.UpdatedAt),
			Active:       c.ID == s.ActiveID,
		})
	}
	return out
}

func toMatches(matches []storage.ConversationMatch) []matchDTO {
	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchDTO{
			ConversationID: m.ConversationID,
			Title:          m.Title,
			MessageIndex:   m.MessageIndex,
			Sender:         string(m.Sender),
			Preview:        m.Preview,
			Timestamp:      storage.FormatTimestamp(m.Timestamp),
		})
	}
	return out
}
