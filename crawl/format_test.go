package crawl_test

import (
	"testing"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when it fits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("keeps the tail behind an ellipsis", func(t *testing.T) {
		t.Parallel()
		result := crawl.TruncateURL("https://github.com/o/r/blob/main/src/util/helper.py", 20)
		assert.Equal(t, "...rc/util/helper.py", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns empty string when maxLen is not positive", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", 0))
		assert.Empty(t, crawl.TruncateURL("https://example.com", -1))
	})

	t.Run("returns a plain prefix when maxLen is too small for an ellipsis", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://example.com", 3))
		assert.Equal(t, "a", crawl.TruncateURL("a", 2))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~500 tokens", crawl.FormatTokens(500))
	assert.Equal(t, "~2k tokens", crawl.FormatTokens(1500))
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	t.Run("reports counts and size", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Result{
			Files:       []*repodoc.ExtractedFile{{Content: "a"}, {Content: "b"}},
			Directories: 3,
			Bytes:       2048,
		}

		assert.Equal(t, "Extracted 2 files from 3 directories (2.0 KB), ~120 tokens", crawl.FormatResult(r, 120))
	})

	t.Run("mentions empty and failed files and omits unknown tokens", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Result{Directories: 1, Empty: 2, Failed: 1}

		assert.Equal(t, "Extracted 0 files from 1 directories (0 B), 2 empty, 1 failed", crawl.FormatResult(r, -1))
	})
}
