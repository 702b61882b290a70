package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/repodoc"
)

var _ repodoc.ReadmeGenerator = (*ReadmeService)(nil)

// ReadmeService crawls a repository in a fresh session and summarizes the
// extracted files into a README.
type ReadmeService struct {
	NewSession repodoc.SessionFactory
	Summarizer repodoc.Summarizer

	// Crawler is a template. Its Session field is replaced for each call.
	Crawler Crawler

	// Sink optionally receives every extracted file, for example to cache
	// the crawl in a database.
	Sink repodoc.Sink
}

// Generate implements repodoc.ReadmeGenerator.
func (s *ReadmeService) Generate(ctx context.Context, repoURL string) (string, error) {
	if strings.TrimSpace(repoURL) == "" {
		return "", repodoc.Errorf(repodoc.EINVALID, "repo_url is required")
	}

	session, err := s.NewSession(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	c := s.Crawler
	c.Session = session

	result, err := c.Crawl(ctx, repoURL, s.Sink, nil)
	if err != nil {
		return "", err
	}
	if len(result.Files) == 0 {
		return "", repodoc.Errorf(repodoc.ENOTFOUND, "no files extracted from %s", repoURL)
	}

	return s.Summarizer.Summarize(ctx, result.Files)
}
