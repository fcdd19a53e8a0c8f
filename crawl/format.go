package crawl

import (
	"fmt"

	"github.com/fwojciec/docsite"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatSummary describes an audit report in one line.
func FormatSummary(r *docsite.AuditReport) string {
	excluded := 0
	for _, p := range r.Pages {
		if p.Excluded && p.Err == nil {
			excluded++
		}
	}
	return fmt.Sprintf("%d pages audited, %d with issues, %d failed, %d excluded",
		len(r.Pages), len(r.WithIssues()), r.Failed(), excluded)
}
