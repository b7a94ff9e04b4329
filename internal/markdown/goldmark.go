package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Goldmark renders standard CommonMark (plus GFM tables, strikethrough,
// task lists and autolinks) instead of the classic compatibility engine.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark constructs the goldmark engine.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
			),
		),
	}
}

// Render converts markdown to an HTML fragment.
func (g *Goldmark) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
