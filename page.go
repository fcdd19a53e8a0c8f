package docsite

import "strings"

// Default exclusions: the site's error page never gets a table of contents.
const (
	DefaultExcludedPath  = "/404.html"
	DefaultExcludedTitle = "404 Not found"
)

// PageInfo identifies the page being indexed.
type PageInfo struct {
	Path  string
	Title string
}

// ExclusionRules designates pages that are left untouched by the indexer.
type ExclusionRules struct {
	// Paths are matched exactly against the page path.
	Paths []string `yaml:"paths"`

	// Titles are matched as substrings of the page title.
	Titles []string `yaml:"titles"`
}

// DefaultExclusionRules returns rules excluding the site's 404 page.
func DefaultExclusionRules() ExclusionRules {
	return ExclusionRules{
		Paths:  []string{DefaultExcludedPath},
		Titles: []string{DefaultExcludedTitle},
	}
}

// Excludes reports whether a page with the given path or title is excluded.
func (r ExclusionRules) Excludes(path, title string) bool {
	for _, p := range r.Paths {
		if p != "" && path == p {
			return true
		}
	}
	for _, t := range r.Titles {
		if t != "" && strings.Contains(title, t) {
			return true
		}
	}
	return false
}

// ProcessResult describes the outcome of indexing one HTML page.
type ProcessResult struct {
	// HTML is the serialised page after mutation. Excluded pages are
	// returned byte-for-byte unchanged.
	HTML string

	// Title is the page title read from the document.
	Title string

	// Headings are the collected content headings in document order.
	Headings []Heading

	// TOC is nil when the page was excluded.
	TOC *TOC

	// NavHTML is the rendered label and list that was inserted.
	NavHTML string

	// HasContent and HasSidebar report whether the configured regions exist.
	HasContent bool
	HasSidebar bool
}

// Excluded reports whether the page was skipped by the exclusion rules.
func (r *ProcessResult) Excluded() bool {
	return r.TOC == nil
}

// Levels returns the level of every heading that produced a TOC entry.
func (r *ProcessResult) Levels() []int {
	levels := make([]int, 0, len(r.Headings))
	for _, h := range r.Headings {
		if h.Level >= 2 {
			levels = append(levels, h.Level)
		}
	}
	return levels
}

// PageProcessor generates and inserts the table of contents for a page.
type PageProcessor interface {
	// Process indexes the HTML of the page served at path.
	Process(html string, path string) (*ProcessResult, error)
}
