// Package trafilatura locates the main content of pages that do not mark
// a content region, so their headings can still be outlined.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docsite.Extractor at compile time.
var _ docsite.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML with navigation, sidebars
// and footers stripped.
func (e *Extractor) Extract(rawHTML string) (*docsite.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsite.Errorf(docsite.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "no main content found: %v", err)
	}

	out := &docsite.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}

// ContentPage wraps the extracted content in a page whose content region
// matches contentSelector's class, so the heading indexer can read it.
// contentSelector must be a single class selector such as ".content".
func ContentPage(res *docsite.ExtractResult, contentSelector string) string {
	class := strings.TrimPrefix(contentSelector, ".")
	var b strings.Builder
	b.WriteString("<html><head><title>")
	b.WriteString(docsite.HTMLEscape(res.Title))
	b.WriteString(`</title></head><body><div class="`)
	b.WriteString(docsite.HTMLEscape(class))
	b.WriteString(`">`)
	b.WriteString(res.ContentHTML)
	b.WriteString("</div></body></html>")
	return b.String()
}
