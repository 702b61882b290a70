package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/repodoc"
	"golang.org/x/time/rate"
)

var _ repodoc.RateLimiter = (*RepoLimiter)(nil)

// RepoLimiter keeps one token bucket per repository key (see
// repodoc.RepoKey). Crawls of different repositories sharing a limiter are
// paced independently.
type RepoLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	repos map[string]*rate.Limiter
}

// NewRepoLimiter allows rps page loads per second per repository with a
// burst of 1. A non-positive rps disables limiting.
func NewRepoLimiter(rps float64) *RepoLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RepoLimiter{
		limit: limit,
		repos: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the repository's bucket has a token or ctx is done.
func (l *RepoLimiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

func (l *RepoLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.repos[key]
	if !ok {
		b = rate.NewLimiter(l.limit, 1)
		l.repos[key] = b
	}
	return b
}
