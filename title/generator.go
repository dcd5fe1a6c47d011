// Package title derives short conversation titles from a first message.
package title

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"willchat/config"
	"willchat/model"
)

const (
	maxTitleWords   = 4
	fallbackWords   = 3
	quoteCharacters = "\"'`“”«»‘’"
	italianFallback = "Nuova Chat"
	defaultFallback = "New Chat"
)

// Generator asks a completion client for a 1-4 word title in the language
// of the first message.
type Generator struct {
	completer model.Completer
	log       zerolog.Logger
}

func NewGenerator(completer model.Completer) *Generator {
	return &Generator{
		completer: completer,
		log:       config.Component("title"),
	}
}

// Generate always returns a usable title. The error is non-nil only when ctx
// was done; the title is then the truncation fallback.
func (g *Generator) Generate(ctx context.Context, firstMessage string) (string, error) {
	lang := DetectLanguage(firstMessage)

	if err := ctx.Err(); err != nil {
		return Fallback(firstMessage, lang), err
	}

	system, user := Prompts(lang, firstMessage)
	reply, err := g.completer.Complete(ctx, []model.ChatMessage{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: user},
	})
	if err != nil {
		g.log.Error().Err(err).Str("language", string(lang)).Msg("title generation failed")
		return Fallback(firstMessage, lang), ctx.Err()
	}

	title := Clean(reply)
	if title == "" {
		g.log.Warn().Str("language", string(lang)).Msg("empty title from completion")
		return Fallback(firstMessage, lang), nil
	}
	return title, nil
}

// Clean trims whitespace and surrounding quotes from a completion and keeps
// at most four words.
func Clean(reply string) string {
	reply = strings.Trim(strings.TrimSpace(reply), quoteCharacters)
	words := strings.Fields(reply)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// Fallback is the first three words of the message, or a placeholder when
// the message is blank.
func Fallback(firstMessage string, lang Language) string {
	words := strings.Fields(firstMessage)
	if len(words) > fallbackWords {
		words = words[:fallbackWords]
	}
	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	if lang == Italian {
		return italianFallback
	}
	return defaultFallback
}
