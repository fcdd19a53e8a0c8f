// Package htmltomarkdown exports tables of contents and page fragments as
// Markdown using html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docsite"
)

// Ensure Converter implements docsite.Converter at compile time.
var _ docsite.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML fragment into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docsite.Errorf(docsite.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}

// Outline renders toc as a Markdown list of in-page links under its label.
// Entries are indented by heading depth when levels are given; pass nil to
// get a flat list like the sidebar.
func Outline(conv docsite.Converter, toc *docsite.TOC, levels []int) (string, error) {
	if toc == nil {
		return "", docsite.Errorf(docsite.EINVALID, "no table of contents")
	}

	var b strings.Builder
	b.WriteString("<p><strong>")
	b.WriteString(docsite.HTMLEscape(toc.Label))
	b.WriteString("</strong></p>")

	if len(toc.Entries) == 0 {
		return conv.Convert(b.String())
	}

	base := minLevel(levels)
	depth := 0
	b.WriteString("<ul>")
	for i, e := range toc.Entries {
		want := 0
		if i > 0 && i < len(levels) {
			want = min(max(levels[i]-base, 0), depth+1)
		}

		switch {
		case i == 0:
			b.WriteString("<li>")
		case want > depth:
			b.WriteString("<ul><li>")
			depth++
		default:
			b.WriteString("</li>")
			for ; depth > want; depth-- {
				b.WriteString("</ul></li>")
			}
			b.WriteString("<li>")
		}
		writeLink(&b, e)
	}
	b.WriteString("</li>")
	for ; depth > 0; depth-- {
		b.WriteString("</ul></li>")
	}
	b.WriteString("</ul>")

	return conv.Convert(b.String())
}

func writeLink(b *strings.Builder, e docsite.NavEntry) {
	b.WriteString(`<a href="`)
	b.WriteString(docsite.HTMLEscape(e.Href()))
	b.WriteString(`">`)
	b.WriteString(docsite.HTMLEscape(e.Text))
	b.WriteString("</a>")
}

func minLevel(levels []int) int {
	if len(levels) == 0 {
		return 0
	}
	m := levels[0]
	for _, l := range levels[1:] {
		if l < m {
			m = l
		}
	}
	return m
}
