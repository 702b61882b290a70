// Package slog decorates repodoc services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repodoc"
)

// Ensure LoggingSession implements repodoc.Session.
var _ repodoc.Session = (*LoggingSession)(nil)

// LoggingSession wraps a Session with logging of page loads and lookups.
type LoggingSession struct {
	next   repodoc.Session
	logger *slog.Logger
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next repodoc.Session, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{next: next, logger: logger}
}

// Navigate delegates to the wrapped session and logs the page load.
func (s *LoggingSession) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Navigate(ctx, url)
}

// WaitFor delegates to the wrapped session. Only failures are logged.
func (s *LoggingSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) (err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("wait for element",
				"selector", selector,
				"timeout", timeout,
				"duration", time.Since(begin),
				"err", err,
			)
		}
	}(time.Now())
	return s.next.WaitFor(ctx, selector, timeout)
}

// ReadMarkup delegates to the wrapped session and logs the markup size.
func (s *LoggingSession) ReadMarkup(ctx context.Context) (html string, err error) {
	defer func() {
		s.logger.Debug("read markup", "bytes", len(html), "err", err)
	}()
	return s.next.ReadMarkup(ctx)
}

// FindLinks delegates to the wrapped session and logs the number of links.
func (s *LoggingSession) FindLinks(ctx context.Context, class string) (anchors []repodoc.Anchor, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find links",
			"class", class,
			"count", len(anchors),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindLinks(ctx, class)
}

// Close delegates to the wrapped session.
func (s *LoggingSession) Close() error {
	return s.next.Close()
}

// SessionFactory wraps every session opened by next.
func SessionFactory(next repodoc.SessionFactory, logger *slog.Logger) repodoc.SessionFactory {
	return func(ctx context.Context) (repodoc.Session, error) {
		begin := time.Now()
		session, err := next(ctx)
		logger.Info("open session", "duration", time.Since(begin), "err", err)
		if err != nil {
			return nil, err
		}
		return NewLoggingSession(session, logger), nil
	}
}
