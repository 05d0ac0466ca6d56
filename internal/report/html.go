package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/PactoSigna/qms-actions/pkg/interfaces"
)

// HTMLRenderer implements interfaces.MarkdownRenderer using the goldmark
// engine. The renderer is stateless so callers can reuse a single instance
// without additional locking. Raw HTML in the source stays escaped: report
// content includes document text the audit does not control.
type HTMLRenderer struct {
	engine goldmark.Markdown
}

var _ interfaces.MarkdownRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer constructs a renderer with GFM tables enabled, matching
// the markdown the summary builder emits.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Table),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts markdown bytes into HTML.
func (r *HTMLRenderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("report render: %w", err)
	}
	return buf.Bytes(), nil
}
