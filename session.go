package repodoc

import (
	"context"
	"time"
)

// Session drives a single page through a repository site.
// Implementations may use browser automation to handle JavaScript-rendered
// content. A Session is used by one crawl at a time.
type Session interface {
	// Navigate loads the URL and waits for the document to load.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until an element matching the CSS selector exists on the
	// current page. Returns ETIMEOUT if it does not appear within timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// ReadMarkup returns the rendered markup of the current page.
	ReadMarkup(ctx context.Context) (string, error)

	// FindLinks returns the anchors on the current page carrying the CSS
	// class, in document order. Hrefs are absolute.
	FindLinks(ctx context.Context, class string) ([]Anchor, error)

	// Close releases the session and any browser it owns.
	// Must be called when the Session is no longer needed.
	Close() error
}

// SessionFactory opens a new Session.
type SessionFactory func(ctx context.Context) (Session, error)

// MarkupParser reads structure out of rendered page markup.
type MarkupParser interface {
	// Anchors returns elements carrying the CSS class, with hrefs resolved
	// against baseURL.
	Anchors(html, class, baseURL string) ([]Anchor, error)

	// Exists reports whether any element matches the CSS selector.
	Exists(html, selector string) (bool, error)

	// Text returns the text of the first element matching the selector.
	// found is false when no element matches; that is not an error.
	Text(html, selector string) (text string, found bool, err error)
}
