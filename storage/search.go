package storage

import (
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"willchat/model"
)

const previewLength = 100

// ConversationMatch is one search hit. MessageIndex is -1 for a title match.
type ConversationMatch struct {
	ConversationID string
	Title          string
	MessageIndex   int
	Sender         model.Sender
	Preview        string
	Timestamp      time.Time
	Score          int
}

type titleSource []model.Conversation

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

// FilterConversations returns the conversations whose title fuzzy-matches
// query, best match first. An empty query returns conversations unchanged.
func FilterConversations(conversations []model.Conversation, query string) []model.Conversation {
	if strings.TrimSpace(query) == "" {
		return conversations
	}

	matches := fuzzy.FindFrom(query, titleSource(conversations))
	out := make([]model.Conversation, 0, len(matches))
	for _, m := range matches {
		out = append(out, conversations[m.Index])
	}
	return out
}

// SearchConversations fuzzy-matches titles and substring-matches message
// content (case-insensitive). Title hits come first, ordered by score.
func SearchConversations(conversations []model.Conversation, query string) []ConversationMatch {
	if strings.TrimSpace(query) == "" {
		return []ConversationMatch{}
	}

	var results []ConversationMatch

	titleMatches := fuzzy.FindFrom(query, titleSource(conversations))
	for _, m := range titleMatches {
		c := conversations[m.Index]
		results = append(results, ConversationMatch{
			ConversationID: c.ID,
			Title:          c.Title,
			MessageIndex:   -1,
			Preview:        c.Title,
			Timestamp:      c.UpdatedAt,
			Score:          m.Score,
		})
	}

	queryLower := strings.ToLower(query)
	for _, c := range conversations {
		for i, msg := range c.Messages {
			if !strings.Contains(strings.ToLower(msg.Content), queryLower) {
				continue
			}
			results = append(results, ConversationMatch{
				ConversationID: c.ID,
				Title:          c.Title,
				MessageIndex:   i,
				Sender:         msg.Sender,
				Preview:        preview(msg.Content),
				Timestamp:      msg.Timestamp,
			})
		}
	}

	if results == nil {
		return []ConversationMatch{}
	}
	return results
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return content
}
