package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docsite"
)

// Ensure LoggingPageProcessor implements docsite.PageProcessor.
var _ docsite.PageProcessor = (*LoggingPageProcessor)(nil)

// LoggingPageProcessor wraps a PageProcessor with debug logging.
type LoggingPageProcessor struct {
	next   docsite.PageProcessor
	logger *slog.Logger
}

// NewLoggingPageProcessor creates a new LoggingPageProcessor.
func NewLoggingPageProcessor(next docsite.PageProcessor, logger *slog.Logger) *LoggingPageProcessor {
	return &LoggingPageProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor and logs the outcome.
func (p *LoggingPageProcessor) Process(html string, path string) (res *docsite.ProcessResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"path", path}
		if res != nil {
			attrs = append(attrs,
				"excluded", res.Excluded(),
				"headings", len(res.Levels()),
				"duplicates", len(res.TOC.Duplicates()),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		p.logger.Debug("toc", attrs...)
	}(time.Now())
	return p.next.Process(html, path)
}
