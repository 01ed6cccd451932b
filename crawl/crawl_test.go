package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<html><head><title>Widgets</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h1>Widgets</h1><p>All about <a href="https://other.org/w">widgets</a>.</p>
<img src="/img/w.png" alt="A widget"></article>
</body></html>`

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) { return html, nil },
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("builds a complete result", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(pageHTML),
			Cleaner: &mock.Cleaner{
				CleanFn: func(string) (*distill.CleanResult, error) {
					return &distill.CleanResult{Title: "Widgets Guide", ContentHTML: "<h1>Widgets</h1>"}, nil
				},
			},
			Generator: &crawl.MarkdownGenerator{
				Converter: &mock.Converter{
					ConvertFn: func(html string) (string, error) { return "md:" + html, nil },
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(string) []distill.Record {
					return []distill.Record{{"name": "widget"}}
				},
			},
		}

		result := c.Crawl(context.Background(), "https://example.com/widgets")

		require.True(t, result.Success)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, "https://example.com/widgets", result.URL)
		assert.Equal(t, pageHTML, result.HTML)
		assert.Equal(t, "Widgets Guide", result.Title)
		assert.Equal(t, "<h1>Widgets</h1>", result.CleanedHTML)
		require.NotNil(t, result.Markdown)
		assert.Equal(t, "md:<h1>Widgets</h1>", result.Markdown.RawMarkdown)
		assert.JSONEq(t, `[{"name":"widget"}]`, result.ExtractedContent)
		assert.Equal(t, crawl.ContentHash(pageHTML), result.ContentHash)

		require.Len(t, result.Media.Images, 1)
		assert.Equal(t, "https://example.com/img/w.png", result.Media.Images[0].Src)
		assert.Equal(t, "A widget", result.Media.Images[0].Alt)
		require.Len(t, result.Links.External, 1)
		assert.Equal(t, "https://other.org/w", result.Links.External[0].Href)
		require.Len(t, result.Links.Internal, 1)
		assert.Equal(t, "https://example.com/", result.Links.Internal[0].Href)
	})

	t.Run("falls back to the page title and raw html", func(t *testing.T) {
		t.Parallel()

		var rendered string
		c := &crawl.Crawler{
			Fetcher: staticFetcher(pageHTML),
			Generator: &crawl.MarkdownGenerator{
				Converter: &mock.Converter{
					ConvertFn: func(html string) (string, error) {
						rendered = html
						return "x", nil
					},
				},
			},
		}

		result := c.Crawl(context.Background(), "https://example.com/widgets")

		assert.Equal(t, "Widgets", result.Title)
		assert.Equal(t, pageHTML, rendered)
		assert.Empty(t, result.ExtractedContent)
	})

	t.Run("keeps the result when cleaning fails", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(pageHTML),
			Cleaner: &mock.Cleaner{
				CleanFn: func(string) (*distill.CleanResult, error) {
					return nil, errors.New("no content")
				},
			},
		}

		result := c.Crawl(context.Background(), "https://example.com/widgets")

		assert.True(t, result.Success)
		assert.Empty(t, result.CleanedHTML)
	})

	t.Run("reports fetch failures in the result", func(t *testing.T) {
		t.Parallel()

		calls := 0
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					calls++
					return "", errors.New("status 404")
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		result := c.Crawl(context.Background(), "https://example.com/missing")

		assert.False(t, result.Success)
		assert.Equal(t, "status 404", result.ErrorMessage)
		assert.Equal(t, 3, calls)
		assert.NotNil(t, result.Links.Internal)
	})

	t.Run("waits on the limiter keyed by host", func(t *testing.T) {
		t.Parallel()

		var key string
		c := &crawl.Crawler{
			Fetcher: staticFetcher("<p>x</p>"),
			Limiter: &mock.RateLimiter{
				WaitFn: func(_ context.Context, k string) error {
					key = k
					return nil
				},
			},
		}

		c.Crawl(context.Background(), "https://docs.example.com/a")

		assert.Equal(t, "docs.example.com", key)
	})
}

func TestCrawler_CrawlMany(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order without duplicates", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := map[string]int{}
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched[url]++
					mu.Unlock()
					if url == "https://example.com/a" {
						time.Sleep(20 * time.Millisecond)
					}
					return "<p>" + url + "</p>", nil
				},
			},
			Concurrency: 2,
		}

		results, err := c.CrawlMany(context.Background(), []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a#intro",
			"https://example.com/c",
		}, nil)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "https://example.com/a", results[0].URL)
		assert.Equal(t, "https://example.com/b", results[1].URL)
		assert.Equal(t, "https://example.com/c", results[2].URL)
		assert.Equal(t, 1, fetched["https://example.com/a"])
	})

	t.Run("keeps every distinct URL of a large batch", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 2000)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://example.com/page/%d", i)
		}
		c := &crawl.Crawler{Fetcher: staticFetcher("<p>page</p>"), Concurrency: 16}

		results, err := c.CrawlMany(context.Background(), urls, nil)

		require.NoError(t, err)
		require.Len(t, results, len(urls))
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/bad" {
						return "", errors.New("status 500")
					}
					return "<p>ok</p>", nil
				},
			},
			RetryDelays: []time.Duration{},
		}

		var events []crawl.ProgressEvent
		_, err := c.CrawlMany(context.Background(), []string{"https://example.com/ok", "https://example.com/bad"}, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)

		var failedEvents int
		for _, e := range events[1:3] {
			if e.Type == crawl.ProgressFailed {
				failedEvents++
				assert.Equal(t, "https://example.com/bad", e.URL)
				assert.Equal(t, "status 500", e.Error)
			}
		}
		assert.Equal(t, 1, failedEvents)
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := crawl.ContentHash("<p>a</p>")

	assert.Len(t, a, 16)
	assert.Equal(t, a, crawl.ContentHash("<p>a</p>"))
	assert.NotEqual(t, a, crawl.ContentHash("<p>b</p>"))
}
