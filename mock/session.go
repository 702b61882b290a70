package mock

import (
	"context"
	"time"

	"github.com/fwojciec/repodoc"
)

var _ repodoc.Session = (*Session)(nil)

// Session is a mock implementation of repodoc.Session.
type Session struct {
	NavigateFn   func(ctx context.Context, url string) error
	WaitForFn    func(ctx context.Context, selector string, timeout time.Duration) error
	ReadMarkupFn func(ctx context.Context) (string, error)
	FindLinksFn  func(ctx context.Context, class string) ([]repodoc.Anchor, error)
	CloseFn      func() error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return s.WaitForFn(ctx, selector, timeout)
}

func (s *Session) ReadMarkup(ctx context.Context) (string, error) {
	return s.ReadMarkupFn(ctx)
}

func (s *Session) FindLinks(ctx context.Context, class string) ([]repodoc.Anchor, error) {
	return s.FindLinksFn(ctx, class)
}

func (s *Session) Close() error {
	return s.CloseFn()
}
