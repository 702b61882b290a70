package mock

import (
	"context"

	"github.com/fwojciec/repodoc"
)

var _ repodoc.Sink = (*Sink)(nil)

// Sink is a mock implementation of repodoc.Sink.
type Sink struct {
	WriteFn func(ctx context.Context, file *repodoc.ExtractedFile) error
}

func (s *Sink) Write(ctx context.Context, file *repodoc.ExtractedFile) error {
	return s.WriteFn(ctx, file)
}
