package repodoc

import (
	"context"
	"net/url"
	"strings"
)

// RateLimiter paces page loads per key.
type RateLimiter interface {
	// Wait blocks until another page under key may be loaded.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, key string) error
}

// RepoKey returns the rate limiting key of a page: host/owner/repo for pages
// inside a repository, so its directory and file pages share a key, and the
// host alone for anything else. The key is lowercase.
func RepoKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", Errorf(EINVALID, "invalid URL %q", rawURL)
	}
	host := strings.ToLower(u.Host)

	loc, err := ParseFileURL(rawURL)
	if err != nil {
		return "", err
	}
	if loc.Owner == "" || loc.Repo == "" {
		return host, nil
	}
	return strings.ToLower(host + "/" + loc.Owner + "/" + loc.Repo), nil
}
