package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/crawl"
	"github.com/fwojciec/repodoc/goquery"
	repodochttp "github.com/fwojciec/repodoc/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Session implements repodoc.Session.
var _ repodoc.Session = (*repodochttp.Session)(nil)

// repoPages is a small repository rendered as static pages.
var repoPages = map[string]string{
	"/o/r": `<html><body>
		<a class="Link--primary" href="/o/r/releases">Releases</a>
		<a class="Link--primary" href="/o/r/tree/main/src" aria-label="src, (Directory)">src</a>
		<a class="Link--primary" href="/o/r/tree/main/node_modules" aria-label="node_modules, (Directory)">node_modules</a>
		<a class="Link--primary" href="/o/r/blob/main/README.md" aria-label="README.md, (File)">README.md</a>
	</body></html>`,
	"/o/r/tree/main/src": `<html><body>
		<a class="Link--primary" href="/o/r/blob/main/src/main.py" aria-label="main.py, (File)">main.py</a>
		<a class="Link--primary" href="/o/r/blob/main/src/logo.png" aria-label="logo.png, (File)">logo.png</a>
	</body></html>`,
	"/o/r/tree/main/node_modules": `<html><body>
		<a class="Link--primary" href="/o/r/blob/main/node_modules/x.js" aria-label="x.js, (File)">x.js</a>
	</body></html>`,
	"/o/r/blob/main/README.md":      `<html><body><textarea id="read-only-cursor-text-area"># Demo</textarea></body></html>`,
	"/o/r/blob/main/src/main.py":    `<html><body><textarea id="read-only-cursor-text-area">print("hi")</textarea></body></html>`,
	"/o/r/blob/main/src/logo.png":   `<html><body><img src="logo.png"></body></html>`,
	"/o/r/blob/main/node_modules/x.js": `<html><body><textarea id="read-only-cursor-text-area">x</textarea></body></html>`,
}

func newRepoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := repoPages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("keeps the page body as current markup", func(t *testing.T) {
		t.Parallel()

		srv := newRepoServer(t)
		s := repodochttp.NewSession(goquery.NewParser())
		defer s.Close()

		require.NoError(t, s.Navigate(context.Background(), srv.URL+"/o/r/blob/main/README.md"))

		html, err := s.ReadMarkup(context.Background())
		require.NoError(t, err)
		assert.Contains(t, html, "# Demo")
	})

	t.Run("returns ENOTFOUND for a missing page", func(t *testing.T) {
		t.Parallel()

		srv := newRepoServer(t)
		s := repodochttp.NewSession(goquery.NewParser())

		err := s.Navigate(context.Background(), srv.URL+"/missing")

		assert.Equal(t, repodoc.ENOTFOUND, repodoc.ErrorCode(err))
	})

	t.Run("returns an error for other statuses", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		s := repodochttp.NewSession(goquery.NewParser())
		err := s.Navigate(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 500")
	})

	t.Run("decodes non-UTF-8 pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<p>caf\xe9</p>"))
		}))
		defer srv.Close()

		s := repodochttp.NewSession(goquery.NewParser())
		require.NoError(t, s.Navigate(context.Background(), srv.URL))

		html, err := s.ReadMarkup(context.Background())
		require.NoError(t, err)
		assert.Contains(t, html, "café")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer srv.Close()

		s := repodochttp.NewSession(goquery.NewParser(), repodochttp.WithTimeout(10*time.Millisecond))

		assert.Error(t, s.Navigate(context.Background(), srv.URL))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newRepoServer(t)
		s := repodochttp.NewSession(goquery.NewParser())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Navigate(ctx, srv.URL+"/o/r")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSession_WaitFor(t *testing.T) {
	t.Parallel()

	srv := newRepoServer(t)
	s := repodochttp.NewSession(goquery.NewParser())
	require.NoError(t, s.Navigate(context.Background(), srv.URL+"/o/r"))

	assert.NoError(t, s.WaitFor(context.Background(), ".Link--primary", time.Second))

	err := s.WaitFor(context.Background(), "#read-only-cursor-text-area", time.Second)
	assert.Equal(t, repodoc.ETIMEOUT, repodoc.ErrorCode(err))
}

func TestSession_FindLinks(t *testing.T) {
	t.Parallel()

	srv := newRepoServer(t)
	s := repodochttp.NewSession(goquery.NewParser())
	require.NoError(t, s.Navigate(context.Background(), srv.URL+"/o/r"))

	anchors, err := s.FindLinks(context.Background(), "Link--primary")

	require.NoError(t, err)
	require.Len(t, anchors, 4)
	assert.Equal(t, srv.URL+"/o/r/tree/main/src", anchors[1].Href)
	assert.Equal(t, "src, (Directory)", anchors[1].Label)
}

func TestSession_Crawl(t *testing.T) {
	t.Parallel()

	srv := newRepoServer(t)
	c := &crawl.Crawler{
		Session:      repodochttp.NewSession(goquery.NewParser()),
		Parser:       goquery.NewParser(),
		FilterChrome: true,
	}

	result, err := c.Crawl(context.Background(), srv.URL+"/o/r", nil, nil)

	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "README.md", result.Files[0].Path)
	assert.Equal(t, "# Demo", result.Files[0].Content)
	assert.Equal(t, "src/main.py", result.Files[1].Path)
	assert.Equal(t, "r/src/main.py", result.Files[1].FullPath)
	assert.Equal(t, `print("hi")`, result.Files[1].Content)
	assert.Equal(t, 1, result.Empty)
	assert.Equal(t, 2, result.Directories)
}
