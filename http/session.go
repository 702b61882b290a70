// Package http provides the static-page Session and the HTTP API server.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/repodoc"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a page is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Session implements repodoc.Session at compile time.
var _ repodoc.Session = (*Session)(nil)

// Session loads pages with plain HTTP requests. It does not execute
// JavaScript, so it only sees server-rendered markup. Elements are looked up
// with a MarkupParser, and since a static page never changes, a selector that
// is absent after loading fails WaitFor immediately.
type Session struct {
	client  *http.Client
	parser  repodoc.MarkupParser
	timeout time.Duration
	maxBody int64

	url    string
	markup string
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithClient sets the HTTP client. The session works on a copy whose
// Timeout is replaced.
func WithClient(c *http.Client) Option {
	return func(s *Session) {
		s.client = c
	}
}

// NewSession creates a new HTTP-based Session reading markup with parser.
func NewSession(parser repodoc.MarkupParser, opts ...Option) *Session {
	s := &Session{
		parser:  parser,
		timeout: DefaultFetchTimeout,
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	client := http.Client{}
	if s.client != nil {
		client = *s.client
	}
	client.Timeout = s.timeout
	s.client = &client

	return s
}

// Factory returns a repodoc.SessionFactory creating a Session per call.
func Factory(parser repodoc.MarkupParser, opts ...Option) repodoc.SessionFactory {
	return func(context.Context) (repodoc.Session, error) {
		return NewSession(parser, opts...), nil
	}
}

// Navigate fetches the URL and keeps its decoded body as the current page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return repodoc.Errorf(repodoc.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return repodoc.Errorf(repodoc.ENOTFOUND, "page not found: %s", url)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, s.maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.url = resp.Request.URL.String()
	s.markup = string(body)
	return nil
}

// WaitFor reports ETIMEOUT unless the current page already has a match.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := s.parser.Exists(s.markup, selector)
	if err != nil {
		return err
	}
	if !ok {
		return repodoc.Errorf(repodoc.ETIMEOUT, "timed out after %s waiting for %q", timeout, selector)
	}
	return nil
}

// ReadMarkup returns the body of the current page.
func (s *Session) ReadMarkup(ctx context.Context) (string, error) {
	return s.markup, ctx.Err()
}

// FindLinks returns class anchors on the current page resolved against its
// final URL.
func (s *Session) FindLinks(ctx context.Context, class string) ([]repodoc.Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.Anchors(s.markup, class, s.url)
}

// Close releases resources. It is a no-op since http.Client doesn't
// require explicit cleanup.
func (s *Session) Close() error {
	return nil
}
