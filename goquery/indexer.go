// Package goquery applies tables of contents to HTML pages using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsite"
)

// headingSelector matches the headings indexed inside the content region.
// Level 1 is the page title and is never indexed.
const headingSelector = "h2, h3, h4, h5, h6"

// Ensure Indexer implements docsite.PageProcessor at compile time.
var _ docsite.PageProcessor = (*Indexer)(nil)

// Indexer collects headings from the content region of a page and inserts
// the generated table of contents into the sidebar region.
type Indexer struct {
	contentSelector string
	sidebarSelector string
	rules           docsite.ExclusionRules
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithContentSelector sets the CSS selector of the content region.
// Defaults to docsite.DefaultContentSelector.
func WithContentSelector(sel string) Option {
	return func(ix *Indexer) {
		ix.contentSelector = sel
	}
}

// WithSidebarSelector sets the CSS selector of the sidebar region.
// Defaults to docsite.DefaultSidebarSelector.
func WithSidebarSelector(sel string) Option {
	return func(ix *Indexer) {
		ix.sidebarSelector = sel
	}
}

// WithExclusionRules sets the pages that are left untouched.
// Defaults to docsite.DefaultExclusionRules().
func WithExclusionRules(rules docsite.ExclusionRules) Option {
	return func(ix *Indexer) {
		ix.rules = rules
	}
}

// NewIndexer creates a new Indexer.
func NewIndexer(opts ...Option) *Indexer {
	ix := &Indexer{
		contentSelector: docsite.DefaultContentSelector,
		sidebarSelector: docsite.DefaultSidebarSelector,
		rules:           docsite.DefaultExclusionRules(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// NewIndexerFromConfig creates an Indexer for the site configuration.
func NewIndexerFromConfig(cfg docsite.SiteConfig) *Indexer {
	return NewIndexer(
		WithContentSelector(cfg.ContentSelector),
		WithSidebarSelector(cfg.SidebarSelector),
		WithExclusionRules(cfg.Exclude),
	)
}

// Collect returns the headings of the content region in document order,
// together with the matching elements. Positions index into the selection.
func (ix *Indexer) Collect(doc *goquery.Document) ([]docsite.Heading, *goquery.Selection) {
	sel := doc.Find(ix.contentSelector).Find(headingSelector)

	headings := make([]docsite.Heading, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		headings = append(headings, docsite.Heading{
			Level:    headingLevel(goquery.NodeName(s)),
			Text:     strings.TrimSpace(s.Text()),
			Position: i,
		})
	})

	return headings, sel
}

// Apply writes the anchors of toc onto the collected heading elements and
// prepends the rendered list to every sidebar region. A page without a
// sidebar region only gets its heading identifiers.
func (ix *Indexer) Apply(doc *goquery.Document, elements *goquery.Selection, toc *docsite.TOC) string {
	for _, a := range toc.Assignments {
		elements.Eq(a.Position).SetAttr("id", a.Anchor)
	}

	nav := RenderNav(toc)
	doc.Find(ix.sidebarSelector).PrependHtml(nav)
	return nav
}

// Generate indexes a parsed page in place. It returns nil without touching
// the document when the page is excluded. A page whose sidebar already
// carries the label is not modified again.
func (ix *Indexer) Generate(doc *goquery.Document, path string) *docsite.TOC {
	toc, _, _ := ix.generate(doc, path)
	return toc
}

func (ix *Indexer) generate(doc *goquery.Document, path string) (*docsite.TOC, []docsite.Heading, string) {
	page := docsite.PageInfo{Path: path, Title: PageTitle(doc)}
	if ix.rules.Excludes(page.Path, page.Title) {
		return nil, nil, ""
	}

	headings, elements := ix.Collect(doc)
	toc, ok := docsite.BuildTOC(page, headings, ix.rules)
	if !ok {
		return nil, nil, ""
	}

	if ix.Indexed(doc) {
		return toc, headings, ""
	}
	return toc, headings, ix.Apply(doc, elements, toc)
}

// Indexed reports whether a sidebar region already starts with the
// generated label, as on pages produced by an earlier build.
func (ix *Indexer) Indexed(doc *goquery.Document) bool {
	found := false
	doc.Find(ix.sidebarSelector).Each(func(_ int, s *goquery.Selection) {
		first := s.Children().First()
		if first.Is("li.nav-header") && strings.TrimSpace(first.Text()) == docsite.TOCLabel {
			found = true
		}
	})
	return found
}

// Process parses html, indexes it and serialises the result.
// Excluded and already indexed pages are returned unchanged.
func (ix *Indexer) Process(html string, path string) (*docsite.ProcessResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsite.Errorf(docsite.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &docsite.ProcessResult{
		Title:      PageTitle(doc),
		HasContent: doc.Find(ix.contentSelector).Length() > 0,
		HasSidebar: doc.Find(ix.sidebarSelector).Length() > 0,
	}

	toc, headings, nav := ix.generate(doc, path)
	if toc == nil {
		result.HTML = html
		return result, nil
	}
	if nav == "" {
		result.HTML = html
		result.TOC = toc
		result.Headings = headings
		return result, nil
	}

	out, err := render(doc, html)
	if err != nil {
		return nil, docsite.Errorf(docsite.EINTERNAL, "failed to render HTML: %v", err)
	}

	result.HTML = out
	result.TOC = toc
	result.Headings = headings
	result.NavHTML = nav
	return result, nil
}

// render serialises doc. Fragments without an <html> element are written
// back as fragments instead of being wrapped in a full document.
func render(doc *goquery.Document, src string) (string, error) {
	if strings.Contains(strings.ToLower(src), "<html") {
		return doc.Html()
	}
	head, err := doc.Find("head").Html()
	if err != nil {
		return "", err
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return head + body, nil
}

// RenderNav renders the label and one list item per entry.
// The markup is meant to be prepended into a sidebar list.
func RenderNav(toc *docsite.TOC) string {
	var b strings.Builder
	b.WriteString(`<li class="nav-header">`)
	b.WriteString(docsite.HTMLEscape(toc.Label))
	b.WriteString("</li>")
	for _, e := range toc.Entries {
		b.WriteString(`<li><a href="`)
		b.WriteString(docsite.HTMLEscape(e.Href()))
		b.WriteString(`">`)
		b.WriteString(docsite.HTMLEscape(e.Text))
		b.WriteString("</a></li>")
	}
	return b.String()
}

// PageTitle returns the text of the document's <title> element with
// whitespace runs collapsed to single spaces, as browsers report it.
func PageTitle(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
