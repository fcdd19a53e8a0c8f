package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/docsite"
	dshttp "github.com/fwojciec/docsite/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "records": {
    "page": [
      {
        "title": "Scalingo - Deploy with Git - Documentation",
        "url": "https://doc.example.com/platform/deployment/deploy-with-git",
        "highlight": {"body": "push to <em>deploy</em>", "sections": "", "title": ""}
      },
      {
        "title": "Scalingo - Environment",
        "url": "https://doc.example.com/platform/app/environment",
        "highlight": {"sections": "<em>deploy</em> hooks"}
      }
    ]
  },
  "info": {"page": {"total_result_count": 42}}
}`

type capturedRequest struct {
	Method    string
	Path      string
	RequestID string
	Body      map[string]any
}

func newSearchServer(t *testing.T, status int, body string) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()

	reqs := make(chan capturedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
		}
		_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		reqs <- captured

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func TestSearchClient_Search(t *testing.T) {
	t.Parallel()

	t.Run("posts the query to the engine", func(t *testing.T) {
		t.Parallel()

		srv, reqs := newSearchServer(t, http.StatusOK, searchBody)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "key-123", BaseURL: srv.URL + "/"})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "deploy"})
		require.NoError(t, err)

		req := <-reqs
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/v1/public/engines/search.json", req.Path)
		assert.Equal(t, "key-123", req.Body["engine_key"])
		assert.Equal(t, "deploy", req.Body["q"])
		assert.EqualValues(t, 1, req.Body["page"])
		assert.EqualValues(t, docsite.DefaultPerPage, req.Body["per_page"])
		_, err = uuid.Parse(req.RequestID)
		assert.NoError(t, err, "X-Request-ID should be a UUID")
	})

	t.Run("passes explicit paging", func(t *testing.T) {
		t.Parallel()

		srv, reqs := newSearchServer(t, http.StatusOK, searchBody)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL, PerPage: 5})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "db", Page: 3, PerPage: 20})
		require.NoError(t, err)

		req := <-reqs
		assert.EqualValues(t, 3, req.Body["page"])
		assert.EqualValues(t, 20, req.Body["per_page"])
	})

	t.Run("uses configured per page", func(t *testing.T) {
		t.Parallel()

		srv, reqs := newSearchServer(t, http.StatusOK, searchBody)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL, PerPage: 5})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "db"})
		require.NoError(t, err)

		assert.EqualValues(t, 5, (<-reqs).Body["per_page"])
	})

	t.Run("decodes results and total", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSearchServer(t, http.StatusOK, searchBody)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL})

		resp, err := client.Search(context.Background(), docsite.SearchQuery{Query: "deploy"})
		require.NoError(t, err)

		assert.Equal(t, "deploy", resp.Query)
		assert.Equal(t, 42, resp.Total)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "Scalingo - Deploy with Git - Documentation", resp.Results[0].Title)
		assert.Equal(t, "https://doc.example.com/platform/deployment/deploy-with-git", resp.Results[0].URL)
		assert.Equal(t, "push to <em>deploy</em>", resp.Results[0].Highlight.Body)
		assert.Equal(t, "<em>deploy</em> hooks", resp.Results[1].Highlight.Sections)
	})

	t.Run("returns empty results slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSearchServer(t, http.StatusOK, `{"records":{"page":[]},"info":{"page":{"total_result_count":0}}}`)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL})

		resp, err := client.Search(context.Background(), docsite.SearchQuery{Query: "zzz"})
		require.NoError(t, err)

		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results)
	})

	t.Run("rejects empty query without calling the service", func(t *testing.T) {
		t.Parallel()

		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: "http://127.0.0.1:1"})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "  "})

		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("requires an engine key", func(t *testing.T) {
		t.Parallel()

		client := dshttp.NewSearchClient(docsite.SearchConfig{BaseURL: "http://127.0.0.1:1"})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "deploy"})

		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("reports non-2xx status as internal error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSearchServer(t, http.StatusUnauthorized, `{"error":"bad key"}`)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "deploy"})

		require.Error(t, err)
		assert.Equal(t, docsite.EINTERNAL, docsite.ErrorCode(err))
		assert.Contains(t, docsite.ErrorMessage(err), "401")
	})

	t.Run("reports malformed body as internal error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSearchServer(t, http.StatusOK, `not json`)
		client := dshttp.NewSearchClient(docsite.SearchConfig{EngineKey: "k", BaseURL: srv.URL})

		_, err := client.Search(context.Background(), docsite.SearchQuery{Query: "deploy"})

		assert.Equal(t, docsite.EINTERNAL, docsite.ErrorCode(err))
	})
}
