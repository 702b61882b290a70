package mock

import (
	"context"

	"github.com/fwojciec/repodoc"
)

var _ repodoc.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of repodoc.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, files []*repodoc.ExtractedFile) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, files []*repodoc.ExtractedFile) (string, error) {
	return s.SummarizeFn(ctx, files)
}

var _ repodoc.ReadmeGenerator = (*ReadmeGenerator)(nil)

// ReadmeGenerator is a mock implementation of repodoc.ReadmeGenerator.
type ReadmeGenerator struct {
	GenerateFn func(ctx context.Context, repoURL string) (string, error)
}

func (g *ReadmeGenerator) Generate(ctx context.Context, repoURL string) (string, error) {
	return g.GenerateFn(ctx, repoURL)
}
