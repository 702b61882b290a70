package repodoc

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DefaultPreviewLength is the number of characters PreviewWriter prints per file.
const DefaultPreviewLength = 1000

// Sink receives extracted files as a crawl produces them, in visitation order.
type Sink interface {
	Write(ctx context.Context, file *ExtractedFile) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, file *ExtractedFile) error

// Write calls fn(ctx, file).
func (fn SinkFunc) Write(ctx context.Context, file *ExtractedFile) error {
	return fn(ctx, file)
}

// MultiSink writes each file to every sink in order, stopping at the first error.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, file *ExtractedFile) error {
		for _, s := range sinks {
			if err := s.Write(ctx, file); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure PreviewWriter implements Sink at compile time.
var _ Sink = (*PreviewWriter)(nil)

// PreviewWriter prints a numbered, truncated preview of each file.
type PreviewWriter struct {
	w      io.Writer
	length int

	mu sync.Mutex
	n  int
}

// NewPreviewWriter creates a PreviewWriter that prints at most length
// characters of each file. A length <= 0 uses DefaultPreviewLength.
func NewPreviewWriter(w io.Writer, length int) *PreviewWriter {
	if length <= 0 {
		length = DefaultPreviewLength
	}
	return &PreviewWriter{w: w, length: length}
}

// Write prints the next preview block.
func (p *PreviewWriter) Write(_ context.Context, file *ExtractedFile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.n++
	header := file.FullPath
	if header == "" {
		header = file.URL
	}
	_, err := fmt.Fprintf(p.w, "\n=== Page %d: %s ===\n\n%s\n", p.n, header, Truncate(file.Content, p.length))
	return err
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
