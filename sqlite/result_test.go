package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock returns a Now func that advances one minute per call.
func clock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newStore(t *testing.T) *sqlite.ResultStore {
	t.Helper()
	store := sqlite.NewResultStore(setupTestDB(t))
	store.Now = clock()
	return store
}

func page(url, hash string) *distill.CrawlResult {
	return &distill.CrawlResult{
		ID:          "id-" + hash,
		URL:         url,
		Success:     true,
		Title:       "Page " + hash,
		ContentHash: hash,
		Markdown:    &distill.MarkdownResult{RawMarkdown: "# Page " + hash},
	}
}

func TestResultStore_WriteResult(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a result", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()
		in := page("https://example.com/docs", "aaa")

		require.NoError(t, store.WriteResult(ctx, in))

		got, err := store.FindResult(ctx, "https://example.com/docs")
		require.NoError(t, err)
		assert.Equal(t, in.ID, got.Result.ID)
		assert.Equal(t, "Page aaa", got.Result.Title)
		assert.Equal(t, "# Page aaa", got.Result.Markdown.RawMarkdown)
		assert.Equal(t, time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC), got.CrawledAt)
	})

	t.Run("replaces the earlier result of a URL", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.WriteResult(ctx, page("https://example.com/docs", "aaa")))
		require.NoError(t, store.WriteResult(ctx, page("https://example.com/docs", "bbb")))

		got, err := store.FindResult(ctx, "https://example.com/docs")
		require.NoError(t, err)
		assert.Equal(t, "bbb", got.Result.ContentHash)

		all, err := store.FindResults(ctx, distill.ResultFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("stores failed results", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()

		err := store.WriteResult(ctx, &distill.CrawlResult{URL: "https://example.com/gone", ErrorMessage: "HTTP 404"})
		require.NoError(t, err)

		got, err := store.FindResult(ctx, "https://example.com/gone")
		require.NoError(t, err)
		assert.False(t, got.Result.Success)
		assert.Equal(t, "HTTP 404", got.Result.ErrorMessage)
	})

	t.Run("rejects results without a host", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		err := store.WriteResult(context.Background(), page("/relative/path", "aaa"))

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}

func TestResultStore_FindResult(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown URLs", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		_, err := store.FindResult(context.Background(), "https://example.com/missing")

		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})
}

func TestResultStore_FindResults(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.ResultStore {
		t.Helper()
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.WriteResult(ctx, page("https://a.example/one", "1")))
		require.NoError(t, store.WriteResult(ctx, page("https://b.example/two", "2")))
		require.NoError(t, store.WriteResult(ctx, &distill.CrawlResult{URL: "https://a.example/three", ErrorMessage: "timeout"}))
		return store
	}

	urls := func(results []*distill.StoredResult) []string {
		var out []string
		for _, r := range results {
			out = append(out, r.Result.URL)
		}
		return out
	}

	t.Run("orders newest first", func(t *testing.T) {
		t.Parallel()

		got, err := seed(t).FindResults(context.Background(), distill.ResultFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example/three", "https://b.example/two", "https://a.example/one"}, urls(got))
	})

	t.Run("filters by host", func(t *testing.T) {
		t.Parallel()

		host := "a.example"
		got, err := seed(t).FindResults(context.Background(), distill.ResultFilter{Host: &host})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example/three", "https://a.example/one"}, urls(got))
	})

	t.Run("filters by success", func(t *testing.T) {
		t.Parallel()

		failed := false
		got, err := seed(t).FindResults(context.Background(), distill.ResultFilter{Success: &failed})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example/three"}, urls(got))
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		got, err := seed(t).FindResults(context.Background(), distill.ResultFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://b.example/two"}, urls(got))
	})
}

func TestResultStore_DeleteResult(t *testing.T) {
	t.Parallel()

	t.Run("removes a stored result", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.WriteResult(ctx, page("https://example.com/docs", "aaa")))

		require.NoError(t, store.DeleteResult(ctx, "https://example.com/docs"))

		_, err := store.FindResult(ctx, "https://example.com/docs")
		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown URLs", func(t *testing.T) {
		t.Parallel()

		err := newStore(t).DeleteResult(context.Background(), "https://example.com/missing")

		assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
	})
}
