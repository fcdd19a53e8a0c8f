package docsite

import (
	"context"
	"fmt"
)

// PageReport is the audit outcome for a single published page.
type PageReport struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Excluded   bool     `json:"excluded"`
	Headings   int      `json:"headings"`
	Duplicates []string `json:"duplicates,omitempty"`
	HasContent bool     `json:"hasContent"`
	HasSidebar bool     `json:"hasSidebar"`
	Err        error    `json:"-"`
}

// Issues returns human-readable problems found on the page.
// Excluded pages only report fetch failures.
func (r *PageReport) Issues() []string {
	if r.Err != nil {
		return []string{fmt.Sprintf("fetch failed: %v", r.Err)}
	}
	if r.Excluded {
		return nil
	}

	var issues []string
	if !r.HasContent {
		issues = append(issues, "no content region")
	}
	if !r.HasSidebar {
		issues = append(issues, "no sidebar region")
	}
	for _, d := range r.Duplicates {
		issues = append(issues, fmt.Sprintf("duplicate anchor #%s", d))
	}
	return issues
}

// AuditReport collects page reports for a site, in sitemap order.
type AuditReport struct {
	SiteURL string        `json:"siteUrl"`
	Pages   []*PageReport `json:"pages"`
}

// Failed returns the number of pages that could not be fetched.
func (r *AuditReport) Failed() int {
	n := 0
	for _, p := range r.Pages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// WithIssues returns the pages that reported at least one issue.
func (r *AuditReport) WithIssues() []*PageReport {
	var out []*PageReport
	for _, p := range r.Pages {
		if len(p.Issues()) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// AuditProgress reports progress while a site is audited.
type AuditProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// AuditProgressFunc is called as pages are processed.
type AuditProgressFunc func(AuditProgress)

// Auditor checks the tables of contents of every page of a published site.
type Auditor interface {
	Audit(ctx context.Context, siteURL string, progress AuditProgressFunc) (*AuditReport, error)
}
