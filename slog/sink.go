package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/repodoc"
)

// Ensure LoggingSink implements repodoc.Sink.
var _ repodoc.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging of each stored file.
type LoggingSink struct {
	next   repodoc.Sink
	name   string
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink. name identifies the sink in logs.
func NewLoggingSink(next repodoc.Sink, name string, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, name: name, logger: logger}
}

func (s *LoggingSink) Write(ctx context.Context, file *repodoc.ExtractedFile) (err error) {
	defer func() {
		s.logger.Debug("sink write",
			"sink", s.name,
			"path", file.FullPath,
			"bytes", len(file.Content),
			"err", err,
		)
	}()
	return s.next.Write(ctx, file)
}
