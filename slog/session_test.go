package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/mock"
	rslog "github.com/fwojciec/repodoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSession(t *testing.T) {
	t.Parallel()

	t.Run("logs navigation with url and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := rslog.NewLoggingSession(&mock.Session{
			NavigateFn: func(context.Context, string) error { return nil },
		}, newLogger(&buf))

		require.NoError(t, s.Navigate(context.Background(), "https://github.com/o/r"))

		output := buf.String()
		assert.Contains(t, output, "msg=navigate")
		assert.Contains(t, output, "url=https://github.com/o/r")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs wait failures only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fail := true
		s := rslog.NewLoggingSession(&mock.Session{
			WaitForFn: func(context.Context, string, time.Duration) error {
				if fail {
					return repodoc.Errorf(repodoc.ETIMEOUT, "timed out")
				}
				return nil
			},
		}, newLogger(&buf))

		require.Error(t, s.WaitFor(context.Background(), ".Link--primary", time.Second))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "selector=.Link--primary")

		buf.Reset()
		fail = false
		require.NoError(t, s.WaitFor(context.Background(), "body", time.Second))
		assert.Empty(t, buf.String())
	})

	t.Run("logs link count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := rslog.NewLoggingSession(&mock.Session{
			FindLinksFn: func(context.Context, string) ([]repodoc.Anchor, error) {
				return []repodoc.Anchor{{Href: "a"}, {Href: "b"}}, nil
			},
		}, newLogger(&buf))

		anchors, err := s.FindLinks(context.Background(), "Link--primary")

		require.NoError(t, err)
		assert.Len(t, anchors, 2)
		assert.Contains(t, buf.String(), "count=2")
	})

	t.Run("logs markup size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := rslog.NewLoggingSession(&mock.Session{
			ReadMarkupFn: func(context.Context) (string, error) { return "<html></html>", nil },
		}, newLogger(&buf))

		_, err := s.ReadMarkup(context.Background())

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "bytes=13")
	})

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		closed := false
		s := rslog.NewLoggingSession(&mock.Session{
			CloseFn: func() error { closed = true; return nil },
		}, newLogger(&bytes.Buffer{}))

		require.NoError(t, s.Close())
		assert.True(t, closed)
	})
}

func TestSessionFactory(t *testing.T) {
	t.Parallel()

	t.Run("wraps opened sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		factory := rslog.SessionFactory(func(context.Context) (repodoc.Session, error) {
			return &mock.Session{}, nil
		}, newLogger(&buf))

		session, err := factory(context.Background())

		require.NoError(t, err)
		assert.IsType(t, &rslog.LoggingSession{}, session)
		assert.Contains(t, buf.String(), "open session")
	})

	t.Run("logs and returns open errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		factory := rslog.SessionFactory(func(context.Context) (repodoc.Session, error) {
			return nil, errors.New("chrome not found")
		}, newLogger(&buf))

		session, err := factory(context.Background())

		require.EqualError(t, err, "chrome not found")
		assert.Nil(t, session)
		assert.Contains(t, buf.String(), `err="chrome not found"`)
	})
}
