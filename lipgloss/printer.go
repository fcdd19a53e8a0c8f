// Package lipgloss renders search results and audit reports for the terminal.
package lipgloss

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/docsite"
	nethtml "golang.org/x/net/html"
)

// Printer writes styled output. Colours are dropped automatically when the
// writer is not a terminal.
type Printer struct {
	w io.Writer

	titleStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	matchStyle   lipgloss.Style
	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:            w,
		titleStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		dimStyle:     r.NewStyle().Foreground(lipgloss.Color("240")),
		matchStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("42")),
		warnStyle:    r.NewStyle().Foreground(lipgloss.Color("214")),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// SearchResults prints the results of a search in rank order.
func (p *Printer) SearchResults(resp *docsite.SearchResponse) {
	results := docsite.FormatResults(resp)
	if len(results) == 0 {
		fmt.Fprintf(p.w, "No results for %q\n", resp.Query)
		return
	}

	fmt.Fprintf(p.w, "%s\n\n", p.dimStyle.Render(fmt.Sprintf("%d results for %q", resp.Total, resp.Query)))
	for i, r := range results {
		fmt.Fprintf(p.w, "%d. %s\n", i+1, p.titleStyle.Render(html.UnescapeString(r.Title)))
		fmt.Fprintf(p.w, "   %s\n", p.dimStyle.Render(r.URL))
		if snippet := p.snippet(r.Snippet); snippet != "" {
			fmt.Fprintf(p.w, "   %s\n", snippet)
		}
		fmt.Fprintln(p.w)
	}
}

// snippet renders a highlight fragment: <em> matches are emphasised, other
// markup is dropped and whitespace is collapsed.
func (p *Printer) snippet(fragment string) string {
	var b strings.Builder
	inMatch := false
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case nethtml.StartTagToken:
			if name, _ := z.TagName(); string(name) == "em" {
				inMatch = true
			}
		case nethtml.EndTagToken:
			if name, _ := z.TagName(); string(name) == "em" {
				inMatch = false
			}
		case nethtml.TextToken:
			raw := string(z.Text())
			text := strings.Join(strings.Fields(raw), " ")
			if text == "" {
				if raw != "" {
					b.WriteByte(' ')
				}
				continue
			}
			if inMatch {
				text = p.matchStyle.Render(text)
			}
			if strings.TrimLeft(raw, " \t\n\r") != raw {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			if strings.TrimRight(raw, " \t\n\r") != raw {
				b.WriteByte(' ')
			}
		}
	}
}

// AuditReport prints every page with issues followed by a pass mark for
// the clean ones.
func (p *Printer) AuditReport(r *docsite.AuditReport) {
	clean := 0
	for _, page := range r.Pages {
		issues := page.Issues()
		switch {
		case page.Err != nil:
			fmt.Fprintf(p.w, "%s %s\n", p.errorStyle.Render("✗"), page.URL)
		case len(issues) > 0:
			fmt.Fprintf(p.w, "%s %s\n", p.warnStyle.Render("!"), page.URL)
		default:
			clean++
			continue
		}
		for _, issue := range issues {
			fmt.Fprintf(p.w, "    %s\n", p.dimStyle.Render("- "+issue))
		}
	}
	if clean > 0 {
		fmt.Fprintf(p.w, "%s %d pages without issues\n", p.successStyle.Render("✓"), clean)
	}
}
