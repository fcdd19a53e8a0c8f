// Package crawl audits the tables of contents of a published documentation
// site. It coordinates sitemap discovery, rate-limited fetching and heading
// indexing of every page.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/bloom"
	"golang.org/x/sync/errgroup"
)

// Ensure Auditor implements docsite.Auditor at compile time.
var _ docsite.Auditor = (*Auditor)(nil)

// Auditor fetches every page listed in a site's sitemaps and reports the
// table of contents problems found on each.
type Auditor struct {
	Sitemaps    docsite.SitemapService
	Fetcher     docsite.Fetcher
	Processor   docsite.PageProcessor
	RateLimiter docsite.DomainLimiter
	Filter      *docsite.URLFilter
	Concurrency int
	RetryDelays []time.Duration
	Logf        LogFunc
}

type pageResult struct {
	position int
	report   *docsite.PageReport
}

// Audit checks every page of the site at siteURL. Pages that fail to
// fetch are reported, not returned as errors; only discovery failures and
// cancellation abort the audit. Reports are in sitemap order.
func (a *Auditor) Audit(ctx context.Context, siteURL string, progress docsite.AuditProgressFunc) (*docsite.AuditReport, error) {
	urls, err := a.Sitemaps.DiscoverURLs(ctx, siteURL, a.Filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}
	pages := dedupe(urls)

	report := &docsite.AuditReport{
		SiteURL: siteURL,
		Pages:   make([]*docsite.PageReport, len(pages)),
	}
	if len(pages) == 0 {
		return report, nil
	}

	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = docsite.DefaultAuditWorkers
	}

	resultCh := make(chan pageResult, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range pages {
			g.Go(func() error {
				resultCh <- pageResult{position: i, report: a.auditPage(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	for res := range resultCh {
		completed++
		report.Pages[res.position] = res.report
		if progress != nil {
			progress(docsite.AuditProgress{
				URL:       res.report.URL,
				Completed: completed,
				Total:     len(pages),
				Error:     res.report.Err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// auditPage fetches and indexes a single page.
func (a *Auditor) auditPage(ctx context.Context, pageURL string) *docsite.PageReport {
	report := &docsite.PageReport{URL: pageURL}

	if a.RateLimiter != nil {
		if err := a.RateLimiter.Wait(ctx, hostOf(pageURL)); err != nil {
			report.Err = err
			return report
		}
	}

	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, pageURL, a.Fetcher.Fetch, delays, a.Logf)
	if err != nil {
		report.Err = err
		return report
	}

	res, err := a.Processor.Process(html, pagePath(pageURL))
	if err != nil {
		report.Err = err
		return report
	}

	report.Title = res.Title
	report.Excluded = res.Excluded()
	report.HasContent = res.HasContent
	report.HasSidebar = res.HasSidebar
	report.Headings = len(res.Levels())
	report.Duplicates = res.TOC.Duplicates()
	return report
}

// dedupe drops URLs that address the same page as an earlier one, such
// as /platform/ and /platform/index.html. A Bloom filter false positive
// may drop a distinct page at the configured rate.
func dedupe(urls []string) []string {
	seen := bloom.NewFilter(uint(len(urls)), bloom.DefaultFalsePositiveRate)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.TestAndAdd(canonical(u)) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// canonical strips fragments, a trailing /index.html segment and trailing
// slashes.
func canonical(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	if strings.HasSuffix(u.Path, "/index.html") {
		u.Path = strings.TrimSuffix(u.Path, "index.html")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// pagePath returns the path the exclusion rules are matched against.
func pagePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
