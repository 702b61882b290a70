package fs

import (
	"context"
	"os"
	"sync"

	"github.com/fwojciec/repodoc"
)

// DefaultAppendFile is the file an Appender writes to by default.
const DefaultAppendFile = "extracted_repo_html.html"

// Ensure Appender implements repodoc.Sink at compile time.
var _ repodoc.Sink = (*Appender)(nil)

// Appender appends each file's content, followed by a blank line, to a flat
// file. The file is opened and closed on every write so that everything
// written before a failure stays on disk.
type Appender struct {
	path string
	mu   sync.Mutex
}

// NewAppender creates an Appender writing to path, or DefaultAppendFile if
// path is empty.
func NewAppender(path string) *Appender {
	if path == "" {
		path = DefaultAppendFile
	}
	return &Appender{path: path}
}

// Path returns the destination file.
func (a *Appender) Path() string {
	return a.path
}

// Write appends file.Content and two newlines.
func (a *Appender) Write(ctx context.Context, file *repodoc.ExtractedFile) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = f.WriteString(file.Content + "\n\n")
	return err
}
