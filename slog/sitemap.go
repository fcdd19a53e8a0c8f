// Package slog decorates docsite services with structured logging.
// Failed calls are logged at warn level.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsite"
)

// levelFor returns the level a call outcome is logged at.
func levelFor(err error, ok slog.Level) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return ok
}

var _ docsite.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs every sitemap discovery with the number of
// pages found and the filter in effect.
type LoggingSitemapService struct {
	next   docsite.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next docsite.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docsite.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		var include, exclude int
		if filter != nil {
			include, exclude = len(filter.Include), len(filter.Exclude)
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelInfo), "sitemap",
			"site", baseURL,
			"include", include,
			"exclude", exclude,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
