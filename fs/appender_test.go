package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppender_Write(t *testing.T) {
	t.Parallel()

	t.Run("appends content blocks in write order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), fs.DefaultAppendFile)
		a := fs.NewAppender(path)

		require.NoError(t, a.Write(context.Background(), &repodoc.ExtractedFile{Content: "<html>one</html>"}))
		require.NoError(t, a.Write(context.Background(), &repodoc.ExtractedFile{Content: "<html>two</html>"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<html>one</html>\n\n<html>two</html>\n\n", string(data))
	})

	t.Run("keeps existing content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.html")
		require.NoError(t, os.WriteFile(path, []byte("earlier\n\n"), 0644))

		require.NoError(t, fs.NewAppender(path).Write(context.Background(), &repodoc.ExtractedFile{Content: "later"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "earlier\n\nlater\n\n", string(data))
	})

	t.Run("uses the default file name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "extracted_repo_html.html", fs.NewAppender("").Path())
	})

	t.Run("returns an error when the directory is missing", func(t *testing.T) {
		t.Parallel()

		a := fs.NewAppender(filepath.Join(t.TempDir(), "missing", "out.html"))

		assert.Error(t, a.Write(context.Background(), &repodoc.ExtractedFile{Content: "x"}))
	})
}
