package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/google/uuid"
)

// searchPath is the public search endpoint of the hosted engine.
const searchPath = "/api/v1/public/engines/search.json"

// Ensure SearchClient implements docsite.Searcher at compile time.
var _ docsite.Searcher = (*SearchClient)(nil)

// SearchClient queries the hosted search engine over its public JSON API.
type SearchClient struct {
	client    *http.Client
	baseURL   string
	engineKey string
	perPage   int
}

// NewSearchClient creates a SearchClient from configuration.
// Zero values in cfg fall back to the docsite defaults.
func NewSearchClient(cfg docsite.SearchConfig) *SearchClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = docsite.DefaultSearchBaseURL
	}
	if cfg.PerPage == 0 {
		cfg.PerPage = docsite.DefaultPerPage
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = docsite.DefaultSearchTimeout
	}
	return &SearchClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		engineKey: cfg.EngineKey,
		perPage:   cfg.PerPage,
	}
}

type searchRequest struct {
	EngineKey string `json:"engine_key"`
	Q         string `json:"q"`
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
}

type searchResponse struct {
	Records struct {
		Page []searchRecord `json:"page"`
	} `json:"records"`
	Info struct {
		Page struct {
			TotalResultCount int `json:"total_result_count"`
		} `json:"page"`
	} `json:"info"`
}

type searchRecord struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Highlight struct {
		Body     string `json:"body"`
		Sections string `json:"sections"`
		Title    string `json:"title"`
	} `json:"highlight"`
}

// Search submits q to the engine and returns its ranked results.
func (c *SearchClient) Search(ctx context.Context, q docsite.SearchQuery) (*docsite.SearchResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if c.engineKey == "" {
		return nil, docsite.Errorf(docsite.EINVALID, "search engine key required")
	}

	body := searchRequest{
		EngineKey: c.engineKey,
		Q:         q.Query,
		Page:      q.Page,
		PerPage:   q.PerPage,
	}
	if body.Page == 0 {
		body.Page = 1
	}
	if body.PerPage == 0 {
		body.PerPage = c.perPage
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, docsite.Errorf(docsite.EINTERNAL, "search service returned HTTP %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, docsite.Errorf(docsite.EINTERNAL, "decoding search response: %v", err)
	}

	out := &docsite.SearchResponse{
		Query:   q.Query,
		Total:   decoded.Info.Page.TotalResultCount,
		Results: make([]docsite.SearchResult, 0, len(decoded.Records.Page)),
	}
	for _, r := range decoded.Records.Page {
		out.Results = append(out.Results, docsite.SearchResult{
			Title: r.Title,
			URL:   r.URL,
			Highlight: docsite.Highlight{
				Body:     r.Highlight.Body,
				Sections: r.Highlight.Sections,
				Title:    r.Highlight.Title,
			},
		})
	}
	return out, nil
}
