package docsite

import (
	"context"
	"strings"
	"sync"
)

// DefaultPerPage is the number of results requested when a query sets none.
const DefaultPerPage = 10

// SearchQuery is a query submitted to the hosted search service.
type SearchQuery struct {
	Query   string `json:"q"`
	Page    int    `json:"page,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
}

// Validate returns an error if the query cannot be submitted.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return Errorf(EINVALID, "search query required")
	}
	if q.Page < 0 || q.PerPage < 0 {
		return Errorf(EINVALID, "search page and per_page must not be negative")
	}
	return nil
}

// Highlight holds the HTML fragments in which the service marked matches.
type Highlight struct {
	Body     string `json:"body,omitempty"`
	Sections string `json:"sections,omitempty"`
	Title    string `json:"title,omitempty"`
}

// SearchResult is a single ranked hit returned by the search service.
type SearchResult struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Highlight Highlight `json:"highlight"`
}

// SearchResponse holds the ranked results for a query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

// Searcher submits queries to the hosted search service.
// Ranking and indexing are entirely external.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResponse, error)
}

// FormattedResult is a search hit prepared for display.
type FormattedResult struct {
	// Title is HTML-escaped.
	Title string `json:"title"`
	URL   string `json:"url"`

	// Snippet is an HTML fragment from the service and is not escaped.
	Snippet string `json:"snippet"`
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#39;",
	"<", "&lt;",
	">", "&gt;",
)

// HTMLEscape escapes the characters that are unsafe in HTML text and attributes.
func HTMLEscape(s string) string {
	return htmlEscaper.Replace(s)
}

// FormatResult prepares a search hit for display.
//
// Site page titles have the form "Site - Page - ...": the displayed title is
// the segment after the first hyphen and before the second one. Titles
// without a hyphen are shown whole. The snippet is the body highlight,
// falling back to the sections highlight, then the title highlight.
func FormatResult(r SearchResult) FormattedResult {
	title := HTMLEscape(r.Title)
	if parts := strings.SplitN(title, "-", 3); len(parts) > 1 {
		title = parts[1]
	}

	snippet := r.Highlight.Body
	if snippet == "" {
		snippet = r.Highlight.Sections
	}
	if snippet == "" {
		snippet = r.Highlight.Title
	}

	return FormattedResult{
		Title:   strings.TrimSpace(title),
		URL:     r.URL,
		Snippet: snippet,
	}
}

// FormatResults formats every result of a response in rank order.
func FormatResults(resp *SearchResponse) []FormattedResult {
	if resp == nil {
		return nil
	}
	out := make([]FormattedResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, FormatResult(r))
	}
	return out
}

// Ensure ActivityTracker implements Searcher at compile time.
var _ Searcher = (*ActivityTracker)(nil)

// ActivityTracker wraps a Searcher and counts requests in flight.
// OnBusy is called when the first request starts and OnIdle when the last
// outstanding request completes, so overlapping queries drive a single
// busy indicator. Callbacks run with the tracker locked and must not call
// back into it.
type ActivityTracker struct {
	next   Searcher
	onBusy func()
	onIdle func()

	mu       sync.Mutex
	inFlight int
}

// NewActivityTracker creates a tracker around next. Nil callbacks are ignored.
func NewActivityTracker(next Searcher, onBusy, onIdle func()) *ActivityTracker {
	return &ActivityTracker{next: next, onBusy: onBusy, onIdle: onIdle}
}

// Search delegates to the wrapped Searcher while tracking activity.
func (t *ActivityTracker) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	t.begin()
	defer t.end()
	return t.next.Search(ctx, q)
}

// InFlight returns the number of requests currently outstanding.
func (t *ActivityTracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

func (t *ActivityTracker) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight++
	if t.inFlight == 1 && t.onBusy != nil {
		t.onBusy()
	}
}

func (t *ActivityTracker) end() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight--
	if t.inFlight == 0 && t.onIdle != nil {
		t.onIdle()
	}
}
