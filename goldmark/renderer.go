// Package goldmark renders Markdown page sources to HTML using goldmark.
package goldmark

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Ensure Renderer implements docsite.Renderer at compile time.
var _ docsite.Renderer = (*Renderer)(nil)

// Renderer converts Markdown to HTML with GitHub Flavored Markdown enabled.
// Heading identifiers are left to the indexer.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts markdown to an HTML fragment. The text of the first
// level 1 heading is returned as the page title.
func (r *Renderer) Render(markdown []byte) (string, string, error) {
	doc := r.md.Parser().Parse(text.NewReader(markdown))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, markdown, doc); err != nil {
		return "", "", docsite.Errorf(docsite.EINTERNAL, "failed to render markdown: %v", err)
	}

	return buf.String(), firstTitle(doc, markdown), nil
}

// firstTitle returns the plain text of the first level 1 heading.
func firstTitle(doc ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(string(h.Text(src)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
