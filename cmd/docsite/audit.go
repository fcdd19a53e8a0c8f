package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/crawl"
	"github.com/fwojciec/docsite/lipgloss"
)

// progressURLWidth is the display width of the URL in progress lines.
const progressURLWidth = 60

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	progress := func(p docsite.AuditProgress) {
		fmt.Fprintf(deps.Stderr, "\r\033[K[%d/%d] %s", p.Completed, p.Total, crawl.TruncateURL(p.URL, progressURLWidth))
		if p.Completed == p.Total {
			fmt.Fprintln(deps.Stderr)
		}
	}

	report, err := deps.Auditor.Audit(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if err := writeAuditJSON(deps, report); err != nil {
			return err
		}
	} else {
		if len(report.Pages) == 0 {
			fmt.Fprintf(deps.Stdout, "No pages found for %s\n", c.URL)
			fmt.Fprintln(deps.Stdout, "Hint: the site must publish a sitemap listed in robots.txt or at /sitemap.xml")
			return nil
		}
		lipgloss.NewPrinter(deps.Stdout).AuditReport(report)
		fmt.Fprintln(deps.Stdout, crawl.FormatSummary(report))
	}

	if c.Strict {
		if n := len(report.WithIssues()); n > 0 {
			return fmt.Errorf("%d pages with issues", n)
		}
	}
	return nil
}

type auditPageJSON struct {
	*docsite.PageReport
	Error  string   `json:"error,omitempty"`
	Issues []string `json:"issues"`
}

func writeAuditJSON(deps *Dependencies, report *docsite.AuditReport) error {
	pages := make([]auditPageJSON, 0, len(report.Pages))
	for _, p := range report.Pages {
		v := auditPageJSON{PageReport: p, Issues: p.Issues()}
		if p.Err != nil {
			v.Error = p.Err.Error()
		}
		if v.Issues == nil {
			v.Issues = []string{}
		}
		pages = append(pages, v)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		SiteURL string          `json:"siteUrl"`
		Pages   []auditPageJSON `json:"pages"`
	}{report.SiteURL, pages})
}
