package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkResultStore_WriteResult simulates a crawl storing many pages.
func BenchmarkResultStore_WriteResult(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	store := sqlite.NewResultStore(db)
	ctx := context.Background()
	markdown := strings.Repeat("Distilled content of a typical documentation page. ", 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := &distill.CrawlResult{
			ID:       fmt.Sprintf("id-%d", i),
			URL:      fmt.Sprintf("https://example.com/docs/page%d", i%500),
			Success:  true,
			Markdown: &distill.MarkdownResult{RawMarkdown: markdown},
		}
		if err := store.WriteResult(ctx, result); err != nil {
			b.Fatal(err)
		}
	}
}
