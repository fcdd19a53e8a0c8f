package mock

import (
	"context"

	"github.com/fwojciec/docsite"
)

// Compile-time interface verification.
var (
	_ docsite.Searcher       = (*Searcher)(nil)
	_ docsite.Fetcher        = (*Fetcher)(nil)
	_ docsite.SitemapService = (*SitemapService)(nil)
	_ docsite.DomainLimiter  = (*DomainLimiter)(nil)
	_ docsite.PageProcessor  = (*PageProcessor)(nil)
	_ docsite.Auditor        = (*Auditor)(nil)
)

// Searcher is a mock implementation of docsite.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, q docsite.SearchQuery) (*docsite.SearchResponse, error)
}

func (s *Searcher) Search(ctx context.Context, q docsite.SearchQuery) (*docsite.SearchResponse, error) {
	return s.SearchFn(ctx, q)
}

// Fetcher is a mock implementation of docsite.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// SitemapService is a mock implementation of docsite.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docsite.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docsite.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

// DomainLimiter is a mock implementation of docsite.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// PageProcessor is a mock implementation of docsite.PageProcessor.
type PageProcessor struct {
	ProcessFn func(html string, path string) (*docsite.ProcessResult, error)
}

func (p *PageProcessor) Process(html string, path string) (*docsite.ProcessResult, error) {
	return p.ProcessFn(html, path)
}

// Auditor is a mock implementation of docsite.Auditor.
type Auditor struct {
	AuditFn func(ctx context.Context, siteURL string, progress docsite.AuditProgressFunc) (*docsite.AuditReport, error)
}

func (a *Auditor) Audit(ctx context.Context, siteURL string, progress docsite.AuditProgressFunc) (*docsite.AuditReport, error) {
	return a.AuditFn(ctx, siteURL, progress)
}
