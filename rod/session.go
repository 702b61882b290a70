// Package rod drives a headless Chrome browser through repository pages.
package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/repodoc"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements repodoc.Session at compile time.
var _ repodoc.Session = (*Session)(nil)

// Session drives a single browser tab. Every navigation reuses the same tab,
// so a Session must not be shared between concurrent crawls.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	closed   atomic.Bool
}

type options struct {
	headless bool
	bin      string
}

// Option configures a Session.
type Option func(*options)

// WithHeadless controls whether the browser window is hidden. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(o *options) {
		o.headless = headless
	}
}

// WithBrowserBin sets the browser executable. By default the launcher finds
// a local Chrome or downloads one.
func WithBrowserBin(path string) Option {
	return func(o *options) {
		o.bin = path
	}
}

// NewSession launches a browser with stability flags and opens a blank tab.
// Close must be called when the Session is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewSession(opts ...Option) (*Session, error) {
	o := options{headless: true}
	for _, opt := range opts {
		opt(&o)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(o.headless)
	if o.bin != "" {
		l = l.Bin(o.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &Session{launcher: l, browser: browser, page: page}, nil
}

// Factory returns a repodoc.SessionFactory launching a new browser per call.
func Factory(opts ...Option) repodoc.SessionFactory {
	return func(ctx context.Context) (repodoc.Session, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewSession(opts...)
	}
}

// Navigate loads the URL and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

// WaitFor polls the current page until an element matches selector.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	_, err := p.Element(selector)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return repodoc.Errorf(repodoc.ETIMEOUT, "timed out after %s waiting for %q", timeout, selector)
	}
	return fmt.Errorf("waiting for %q: %w", selector, err)
}

// ReadMarkup returns the rendered HTML of the current page.
func (s *Session) ReadMarkup(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// FindLinks returns anchors with the class on the current page. Relative
// hrefs are resolved against the page URL.
func (s *Session) FindLinks(ctx context.Context, class string) ([]repodoc.Anchor, error) {
	page := s.page.Context(ctx)

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("reading page info: %w", err)
	}
	base, err := url.Parse(info.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	elements, err := page.Elements("." + class)
	if err != nil {
		return nil, fmt.Errorf("finding .%s elements: %w", class, err)
	}

	anchors := make([]repodoc.Anchor, 0, len(elements))
	for _, el := range elements {
		href, err := el.Attribute("href")
		if err != nil {
			return nil, err
		}
		if href == nil || *href == "" {
			continue
		}
		ref, err := url.Parse(*href)
		if err != nil {
			continue
		}

		var label string
		if l, err := el.Attribute("aria-label"); err != nil {
			return nil, err
		} else if l != nil {
			label = *l
		}

		text, err := el.Text()
		if err != nil {
			return nil, err
		}

		anchors = append(anchors, repodoc.Anchor{
			Href:  base.ResolveReference(ref).String(),
			Label: label,
			Text:  text,
		})
	}
	return anchors, nil
}

// Close closes the tab and the browser and kills the browser process.
// Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	_ = s.page.Close()
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (s *Session) LauncherPID() int {
	return s.launcher.PID()
}
