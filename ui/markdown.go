package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"willchat/config"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const codeBlockBar = "┃"

// renderKey identifies one rendering of a message at one width.
type renderKey struct {
	messageID string
	width     int
}

// renderMarkdown renders an assistant reply for the terminal.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	// Plain URLs stay plain so the terminal can make them clickable.
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = colorURLs(rendered)
	return strings.TrimRight(rendered, "\n")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines keep their syntax highlighting.
		if !strings.Contains(line, codeBlockBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownCmd renders off the update loop.
func renderMarkdownCmd(messageID, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		config.Logger.Debug().
			Str("message", messageID).
			Int("chars", len(content)).
			Dur("took", time.Since(start)).
			Msg("markdown rendered")
		return markdownRenderedMsg{key: renderKey{messageID: messageID, width: width}, rendered: rendered}
	}
}
