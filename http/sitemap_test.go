package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docsite"
	dshttp "github.com/fwojciec/docsite/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps listed in robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/sitemap.xml\n",
			"/sitemap.xml": urlset(
				"{{BASE}}/platform/getting-started",
				"{{BASE}}/platform/deployment",
			),
		})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/platform/getting-started",
			srv.URL + "/platform/deployment",
		}, urls)
	})

	t.Run("falls back to /sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("{{BASE}}/index.html"),
		})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/index.html"}, urls)
	})

	t.Run("follows sitemap indexes", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-platform.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-databases.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-platform.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-platform.xml":  urlset("{{BASE}}/platform/apps"),
			"/sitemap-databases.xml": urlset("{{BASE}}/databases/postgresql"),
		})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/platform/apps",
			srv.URL + "/databases/postgresql",
		}, urls)
	})

	t.Run("drops duplicates and non-page resources", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset(
				"{{BASE}}/platform/apps",
				"{{BASE}}/assets/guide.pdf",
				"{{BASE}}/feed.xml",
				"{{BASE}}/platform/apps",
				"{{BASE}}/404.html",
			),
		})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/platform/apps", srv.URL + "/404.html"}, urls)
	})

	t.Run("restricts results to the base path", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset(
				"{{BASE}}/platform",
				"{{BASE}}/platform/apps",
				"{{BASE}}/platforms/other",
				"{{BASE}}/databases/redis",
			),
		})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+"/platform/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/platform", srv.URL + "/platform/apps"}, urls)
	})

	t.Run("applies the URL filter", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset(
				"{{BASE}}/platform/apps",
				"{{BASE}}/platform/internal/debug",
				"{{BASE}}/changelog/2024",
			),
		})
		defer srv.Close()

		filter, err := docsite.NewURLFilter([]string{`/platform/`}, []string{`/internal/`})
		require.NoError(t, err)

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/platform/apps"}, urls)
	})

	t.Run("returns empty slice when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		urls, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects malformed sitemap", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": "<urlset><url><loc>",
		})
		defer srv.Close()

		_, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.Error(t, err)
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := dshttp.NewSitemapService(nil).DiscoverURLs(context.Background(), "/relative", nil)

		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": urlset("{{BASE}}/page"),
		})
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := dshttp.NewSitemapService(srv.Client()).DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func urlset(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		b.WriteString("  <url><loc>" + loc + "</loc></url>\n")
	}
	b.WriteString("</urlset>")
	return b.String()
}

// newTestServer serves the given path -> body map. Bodies may contain
// {{BASE}}, which is replaced with the server URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))

	return srv
}
