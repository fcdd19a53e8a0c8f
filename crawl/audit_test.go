package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/crawl"
	"github.com/fwojciec/docsite/goquery"
	"github.com/fwojciec/docsite/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const site = "https://doc.example.com"

var pages = map[string]string{
	site + "/platform/apps": `<html><head><title>Apps</title></head><body>
<ul class="sidebar-nav"></ul>
<div class="content"><h1>Apps</h1><h2>Create</h2><h3>Name</h3><h2>Delete</h2></div>
</body></html>`,
	site + "/platform/env": `<html><head><title>Env</title></head><body>
<ul class="sidebar-nav"></ul>
<div class="content"><h2>Setup</h2><p>a</p><h2>Setup</h2></div>
</body></html>`,
	site + "/changelog": `<html><head><title>Changelog</title></head><body>
<div class="content"><h2>2024</h2></div>
</body></html>`,
	site + "/404.html": `<html><head><title>404 Not found</title></head><body><p>gone</p></body></html>`,
}

func newAuditor(urls []string, fetch func(ctx context.Context, url string) (string, error)) *crawl.Auditor {
	return &crawl.Auditor{
		Sitemaps: &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *docsite.URLFilter) ([]string, error) {
				return urls, nil
			},
		},
		Fetcher:     &mock.Fetcher{FetchFn: fetch},
		Processor:   goquery.NewIndexer(),
		RateLimiter: crawl.NewDomainLimiter(0),
		Concurrency: 2,
		RetryDelays: []time.Duration{},
	}
}

func fetchFromMap(ctx context.Context, url string) (string, error) {
	html, ok := pages[url]
	if !ok {
		return "", docsite.Errorf(docsite.ENOTFOUND, "page not found: %s", url)
	}
	return html, nil
}

func TestAuditor_Audit(t *testing.T) {
	t.Parallel()

	t.Run("reports each page in sitemap order", func(t *testing.T) {
		t.Parallel()

		urls := []string{site + "/platform/apps", site + "/platform/env", site + "/changelog", site + "/404.html"}
		auditor := newAuditor(urls, fetchFromMap)

		report, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		require.Len(t, report.Pages, 4)
		assert.Equal(t, site, report.SiteURL)

		apps := report.Pages[0]
		assert.Equal(t, site+"/platform/apps", apps.URL)
		assert.Equal(t, "Apps", apps.Title)
		assert.Equal(t, 3, apps.Headings)
		assert.True(t, apps.HasContent)
		assert.True(t, apps.HasSidebar)
		assert.Empty(t, apps.Issues())

		env := report.Pages[1]
		assert.Equal(t, []string{"setup"}, env.Duplicates)
		assert.Equal(t, []string{"duplicate anchor #setup"}, env.Issues())

		changelog := report.Pages[2]
		assert.False(t, changelog.HasSidebar)
		assert.Equal(t, []string{"no sidebar region"}, changelog.Issues())

		notFound := report.Pages[3]
		assert.True(t, notFound.Excluded)
		assert.Empty(t, notFound.Issues())
	})

	t.Run("records fetch failures without aborting", func(t *testing.T) {
		t.Parallel()

		urls := []string{site + "/platform/apps", site + "/missing"}
		auditor := newAuditor(urls, fetchFromMap)

		report, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		require.Len(t, report.Pages, 2)
		assert.NoError(t, report.Pages[0].Err)
		assert.Equal(t, docsite.ENOTFOUND, docsite.ErrorCode(report.Pages[1].Err))
		assert.Equal(t, 1, report.Failed())
	})

	t.Run("audits equivalent URLs once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		fetch := func(ctx context.Context, url string) (string, error) {
			mu.Lock()
			fetched = append(fetched, url)
			mu.Unlock()
			return pages[site+"/platform/apps"], nil
		}
		urls := []string{site + "/platform/", site + "/platform/index.html", site + "/platform#top"}
		auditor := newAuditor(urls, fetch)

		report, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		require.Len(t, report.Pages, 1)
		assert.Equal(t, []string{site + "/platform/"}, fetched)
	})

	t.Run("keeps pages whose name only ends in index.html", func(t *testing.T) {
		t.Parallel()

		fetch := func(ctx context.Context, url string) (string, error) {
			return pages[site+"/platform/apps"], nil
		}
		urls := []string{site + "/x/my", site + "/x/myindex.html", site + "/x/index.html", site + "/x/"}
		auditor := newAuditor(urls, fetch)

		report, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		require.Len(t, report.Pages, 3)
		assert.Equal(t, site+"/x/my", report.Pages[0].URL)
		assert.Equal(t, site+"/x/myindex.html", report.Pages[1].URL)
		assert.Equal(t, site+"/x/index.html", report.Pages[2].URL)
	})

	t.Run("reports progress for every page", func(t *testing.T) {
		t.Parallel()

		urls := []string{site + "/platform/apps", site + "/platform/env", site + "/missing"}
		auditor := newAuditor(urls, fetchFromMap)

		var events []docsite.AuditProgress
		_, err := auditor.Audit(context.Background(), site, func(p docsite.AuditProgress) {
			events = append(events, p)
		})
		require.NoError(t, err)

		require.Len(t, events, 3)
		assert.Equal(t, 3, events[2].Completed)
		assert.Equal(t, 3, events[2].Total)
		failed := 0
		for _, e := range events {
			if e.Error != nil {
				failed++
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("waits on the limiter with the page host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		auditor := newAuditor([]string{site + "/platform/apps"}, fetchFromMap)
		auditor.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				mu.Lock()
				hosts = append(hosts, domain)
				mu.Unlock()
				return nil
			},
		}

		_, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"doc.example.com"}, hosts)
	})

	t.Run("returns empty report when sitemap lists nothing", func(t *testing.T) {
		t.Parallel()

		auditor := newAuditor([]string{}, fetchFromMap)

		report, err := auditor.Audit(context.Background(), site, nil)
		require.NoError(t, err)

		assert.Empty(t, report.Pages)
	})

	t.Run("fails when discovery fails", func(t *testing.T) {
		t.Parallel()

		auditor := newAuditor(nil, fetchFromMap)
		auditor.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *docsite.URLFilter) ([]string, error) {
				return nil, errors.New("connection refused")
			},
		}

		_, err := auditor.Audit(context.Background(), site, nil)

		require.ErrorContains(t, err, "sitemap discovery")
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", ctx.Err()
		}
		auditor := newAuditor([]string{site + "/platform/apps"}, fetch)

		_, err := auditor.Audit(ctx, site, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
