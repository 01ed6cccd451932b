package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	"github.com/fwojciec/distill/trafilatura"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.RPS <= 0 {
		return report(deps, distill.Errorf(distill.EINVALID, "--rps must be positive"))
	}

	crawler := &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Cleaner:     newCleaner(c.Cleaner),
		Generator:   &crawl.MarkdownGenerator{Converter: deps.Converter},
		Limiter:     crawl.NewKeyLimiter(c.RPS),
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	if c.Flags.IsSet() {
		cfg, err := c.Flags.FilterConfig()
		if err != nil {
			return report(deps, err)
		}
		filter, err := deps.NewFilter(cfg)
		if err != nil {
			return report(deps, err)
		}
		crawler.Generator.Filter = filter
		crawler.Generator.FilterKind = cfg.Kind()
	}

	if c.Schema != "" {
		schema, err := os.ReadFile(c.Schema)
		if err != nil {
			return report(deps, distill.Errorf(distill.EINVALID, "read schema: %v", err))
		}
		x, err := crawl.NewExtractor(schema, crawl.Backend(c.Backend), deps.Logger)
		if err != nil {
			return report(deps, err)
		}
		crawler.Extractor = x
	}

	writer := fs.NewWriter(c.Output)
	writer.JSON = c.JSON

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, event.Error)
		}
	}

	results, err := crawler.CrawlMany(deps.Ctx, c.URLs, progress)
	if err != nil {
		return report(deps, err)
	}

	stats := crawl.SaveResults(deps.Ctx, results, writer, deps.Results)
	for _, err := range stats.Errors {
		fmt.Fprintf(deps.Stderr, "  %v\n", err)
	}

	fmt.Fprintf(deps.Stdout, "Saved %d of %d pages to %s\n", stats.Saved, len(results), c.Output)
	if deps.Results != nil {
		fmt.Fprintf(deps.Stdout, "  %d unchanged since the last crawl\n", stats.Unchanged)
	}
	if stats.Saved == 0 {
		return distill.Errorf(distill.EUNAVAILABLE, "no pages saved")
	}
	return nil
}

func newCleaner(name string) distill.Cleaner {
	switch name {
	case "trafilatura":
		return trafilatura.NewCleaner()
	case "readability":
		return readability.NewCleaner()
	default:
		return nil
	}
}

// ParseWait parses a browser wait condition: "css:<selector>",
// "js:<expression>", or a duration optionally prefixed with "fixed:".
func ParseWait(s string) (rod.WaitStrategy, error) {
	switch {
	case strings.HasPrefix(s, "css:"):
		if sel := strings.TrimPrefix(s, "css:"); sel != "" {
			return rod.WaitSelector(sel), nil
		}
	case strings.HasPrefix(s, "js:"):
		if expr := strings.TrimPrefix(s, "js:"); expr != "" {
			return rod.WaitJS(expr), nil
		}
	default:
		d, err := time.ParseDuration(strings.TrimPrefix(s, "fixed:"))
		if err == nil && d >= 0 {
			return rod.WaitFixed(d), nil
		}
	}
	return nil, distill.Errorf(distill.EINVALID, "invalid wait condition %q", s)
}
