// Package slog decorates distill services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

var _ distill.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every fetch with its size and duration.
type LoggingFetcher struct {
	next   distill.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next distill.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

var _ distill.ContentFilter = (*LoggingFilter)(nil)

// LoggingFilter logs every filter call with input and output sizes.
type LoggingFilter struct {
	next   distill.ContentFilter
	kind   distill.FilterKind
	logger *slog.Logger
}

// NewLoggingFilter creates a new LoggingFilter.
func NewLoggingFilter(next distill.ContentFilter, kind distill.FilterKind, logger *slog.Logger) *LoggingFilter {
	return &LoggingFilter{next: next, kind: kind, logger: logger}
}

func (f *LoggingFilter) Filter(ctx context.Context, html string) (out string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("filter",
			"kind", f.kind,
			"in_bytes", len(html),
			"out_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Filter(ctx, html)
}

var _ distill.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter logs every completion at debug level; failures are
// logged as warnings.
type LoggingCompleter struct {
	next     distill.Completer
	provider string
	logger   *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next distill.Completer, provider string, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, provider: provider, logger: logger}
}

func (c *LoggingCompleter) Complete(ctx context.Context, prompt string) (resp string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "completion",
			"provider", c.provider,
			"prompt_bytes", len(prompt),
			"response_bytes", len(resp),
			"duration", time.Since(begin),
			"code", distill.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, prompt)
}
