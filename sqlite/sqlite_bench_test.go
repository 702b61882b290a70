package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCacheCrawl simulates caching a crawl of a 100-file repository,
// first as fresh inserts and then as a re-crawl replacing every row.
func BenchmarkCacheCrawl(b *testing.B) {
	const filesPerCrawl = 100

	for _, recrawl := range []bool{false, true} {
		name := "fresh"
		if recrawl {
			name = "recrawl"
		}
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				db := sqlite.NewDB(filepath.Join(b.TempDir(), fmt.Sprintf("bench%d.db", i)))
				require.NoError(b, db.Open())
				svc := sqlite.NewFileService(db)
				ctx := context.Background()
				if recrawl {
					cacheFiles(b, ctx, svc, filesPerCrawl)
				}
				b.StartTimer()

				cacheFiles(b, ctx, svc, filesPerCrawl)

				b.StopTimer()
				db.Close()
			}
		})
	}
}

func cacheFiles(b *testing.B, ctx context.Context, svc *sqlite.FileService, n int) {
	b.Helper()
	for j := 0; j < n; j++ {
		f, err := repodoc.NewExtractedFile(
			fmt.Sprintf("https://github.com/o/r/blob/main/pkg/file%d.go", j),
			fmt.Sprintf("package pkg\n\n// File%d is generated for benchmarking.\nfunc File%d() int { return %d }\n", j, j, j),
		)
		if err != nil {
			b.Fatal(err)
		}
		f.Position = j
		if err := svc.CreateFile(ctx, f); err != nil {
			b.Fatal(err)
		}
	}
}
