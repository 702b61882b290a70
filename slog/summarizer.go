package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repodoc"
)

// Ensure LoggingSummarizer implements repodoc.Summarizer.
var _ repodoc.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   repodoc.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next repodoc.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the request.
func (s *LoggingSummarizer) Summarize(ctx context.Context, files []*repodoc.ExtractedFile) (readme string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"files", len(files),
			"bytes", len(readme),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, files)
}
