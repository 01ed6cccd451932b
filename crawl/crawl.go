// Package crawl runs pages through the distillation pipeline: fetch with
// retry, clean, render markdown, filter and extract.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/bloom"
	"github.com/fwojciec/distill/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages crawled at once by CrawlMany.
const DefaultConcurrency = 4

// dedupeFalsePositiveRate sizes the bloom pre-check of the URL set used
// by CrawlMany.
const dedupeFalsePositiveRate = 0.001

// Crawler turns URLs into crawl results.
type Crawler struct {
	Fetcher   distill.Fetcher
	Cleaner   distill.Cleaner
	Generator *MarkdownGenerator
	Extractor distill.Extractor

	// Limiter paces fetches per host.
	Limiter     distill.RateLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// ProgressEvent reports progress during CrawlMany.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl fetches url and processes it. Fetch failures are reported in the
// result, not as an error.
func (c *Crawler) Crawl(ctx context.Context, url string) *distill.CrawlResult {
	if c.Limiter != nil {
		if u, err := neturl.Parse(url); err == nil && u.Host != "" {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				return failed(url, err)
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, url, c.Fetcher.Fetch, c.logger(), delays)
	if err != nil {
		c.logger().Warn("fetch failed", "url", url, "err", err)
		return failed(url, err)
	}
	return c.Process(ctx, url, html)
}

// Process runs already fetched html through the pipeline. Failures of
// optional stages are logged and leave their fields empty.
func (c *Crawler) Process(ctx context.Context, url, html string) *distill.CrawlResult {
	html = strings.ToValidUTF8(html, "�")
	result := &distill.CrawlResult{
		ID:          uuid.NewString(),
		URL:         url,
		HTML:        html,
		Success:     true,
		ContentHash: ContentHash(html),
	}
	logger := c.logger().With("url", url)

	doc := goquery.Parse(html)
	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	result.Media = goquery.ExtractMedia(doc, url)
	links, err := goquery.ExtractLinks(doc, url)
	if err != nil {
		logger.Debug("links skipped", "err", err)
	}
	result.Links = links

	if c.Cleaner != nil {
		cleaned, err := c.Cleaner.Clean(html)
		if err != nil {
			logger.Warn("clean failed", "err", err)
		} else {
			result.CleanedHTML = cleaned.ContentHTML
			if cleaned.Title != "" {
				result.Title = cleaned.Title
			}
		}
	}

	if c.Generator != nil {
		source := result.CleanedHTML
		if source == "" {
			source = html
		}
		md, err := c.Generator.Generate(ctx, source, url)
		if err != nil {
			logger.Warn("markdown generation failed", "err", err)
		} else {
			result.Markdown = md
		}
	}

	if c.Extractor != nil {
		records := c.Extractor.Extract(html)
		if records == nil {
			records = []distill.Record{}
		}
		data, err := json.Marshal(records)
		if err != nil {
			logger.Warn("encode extracted content failed", "err", err)
		} else {
			result.ExtractedContent = string(data)
		}
	}

	return result
}

// CrawlMany crawls urls concurrently, skipping repeats of a URL that
// differ only by fragment. Results are returned in input order. The
// error is non-nil only when ctx is done.
func (c *Crawler) CrawlMany(ctx context.Context, urls []string, progress ProgressFunc) ([]*distill.CrawlResult, error) {
	seen := bloom.NewURLSet(uint(len(urls)), dedupeFalsePositiveRate)
	var unique []string
	for _, u := range urls {
		if seen.Add(u) {
			unique = append(unique, u)
		}
	}

	total := len(unique)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		position int
		result   *distill.CrawlResult
	}
	resultCh := make(chan indexed, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, u := range unique {
			g.Go(func() error {
				resultCh <- indexed{position: i, result: c.Crawl(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*distill.CrawlResult, total)
	completed := 0
	for r := range resultCh {
		results[r.position] = r.result
		completed++
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: r.result.URL}
		if !r.result.Success {
			event.Type = ProgressFailed
			event.Error = r.result.ErrorMessage
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// ContentHash returns the xxhash64 of html as hex.
func ContentHash(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func failed(url string, err error) *distill.CrawlResult {
	return &distill.CrawlResult{
		ID:           uuid.NewString(),
		URL:          url,
		Media:        distill.Media{Images: []distill.MediaItem{}},
		Links:        distill.Links{Internal: []distill.Link{}, External: []distill.Link{}},
		ErrorMessage: err.Error(),
	}
}
