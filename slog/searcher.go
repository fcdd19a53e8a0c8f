package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsite"
)

// Ensure LoggingSearcher implements docsite.Searcher.
var _ docsite.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   docsite.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next docsite.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the query.
func (s *LoggingSearcher) Search(ctx context.Context, q docsite.SearchQuery) (resp *docsite.SearchResponse, err error) {
	defer func(begin time.Time) {
		var results, total int
		if resp != nil {
			results, total = len(resp.Results), resp.Total
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelInfo), "search",
			"query", q.Query,
			"page", q.Page,
			"results", results,
			"total", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, q)
}
