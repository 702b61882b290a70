// Package fs writes extracted repository files to the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/repodoc"
)

// Ensure Mirror implements repodoc.Sink at compile time.
var _ repodoc.Sink = (*Mirror)(nil)

// Mirror recreates a repository's file tree on disk with atomic update
// semantics. Files are written under baseDir/name.tmp and moved to
// baseDir/name on Commit, replacing any earlier mirror.
type Mirror struct {
	baseDir string
	name    string
}

// NewMirror creates a new Mirror.
func NewMirror(baseDir, name string) *Mirror {
	return &Mirror{
		baseDir: baseDir,
		name:    name,
	}
}

func (m *Mirror) tempDir() string {
	return filepath.Join(m.baseDir, m.name+".tmp")
}

// Dir returns the final mirror directory.
func (m *Mirror) Dir() string {
	return filepath.Join(m.baseDir, m.name)
}

// Write stores file.Content at file.Path inside the temporary directory.
func (m *Mirror) Write(ctx context.Context, file *repodoc.ExtractedFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := RelativePath(file)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(m.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(file.Content), 0644)
}

// Commit replaces the final directory with the temporary one.
func (m *Mirror) Commit() error {
	if err := os.MkdirAll(m.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(m.Dir()); err != nil {
		return err
	}
	return os.Rename(m.tempDir(), m.Dir())
}

// Abort discards everything written since the last Commit.
func (m *Mirror) Abort() error {
	return os.RemoveAll(m.tempDir())
}

// RelativePath returns the slash-separated repository path of file as a
// local relative path. Paths escaping the mirror root are rejected.
func RelativePath(file *repodoc.ExtractedFile) (string, error) {
	if file.Path == "" {
		return "", repodoc.Errorf(repodoc.EINVALID, "file %s has no repository path", file.URL)
	}

	clean := filepath.Clean(filepath.FromSlash(file.Path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", repodoc.Errorf(repodoc.EINVALID, "file path %q escapes the mirror directory", file.Path)
	}
	return clean, nil
}
