// Package llm distills HTML into markdown with a language model. Input is
// split into word chunks that are completed concurrently and reassembled
// in order.
package llm

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/fwojciec/distill"
	"golang.org/x/sync/errgroup"
)

var _ distill.ContentFilter = (*Distiller)(nil)

// MaxInFlight bounds the completions running at once.
const MaxInFlight = 4

// Distiller is a content filter that asks a language model to rewrite each
// chunk of a page as markdown.
type Distiller struct {
	cfg     distill.LLMConfig
	retrier retrier
	logger  *slog.Logger
}

// Option configures a Distiller.
type Option func(*Distiller)

// WithLogger sets the logger chunk failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Distiller) {
		d.logger = logger
	}
}

// WithRateLimiter paces completion attempts, keyed by provider.
func WithRateLimiter(limiter distill.RateLimiter) Option {
	return func(d *Distiller) {
		d.retrier.limiter = limiter
	}
}

// WithSleep replaces the timer used between retries.
func WithSleep(sleep SleepFunc) Option {
	return func(d *Distiller) {
		d.retrier.sleep = sleep
	}
}

// NewDistiller creates a new Distiller.
func NewDistiller(completer distill.Completer, cfg distill.LLMConfig, opts ...Option) (*Distiller, error) {
	if completer == nil {
		return nil, distill.Errorf(distill.EINVALID, "completer required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Instruction == "" {
		cfg.Instruction = distill.DefaultInstruction
	}
	d := &Distiller{
		cfg: cfg,
		retrier: retrier{
			completer: completer,
			key:       cfg.Provider,
			backoff:   cfg.Backoff,
			sleep:     Sleep,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

type chunkResult struct {
	index int
	text  string
}

// Filter returns the markdown of every chunk joined by blank lines.
// A chunk whose completion fails contributes an empty string; only
// cancellation of ctx fails the call.
func (d *Distiller) Filter(ctx context.Context, html string) (string, error) {
	chunks := distill.ChunkWords(html, d.cfg.ChunkTokenThreshold, d.cfg.OverlapRate, d.cfg.WordTokenRate)
	if len(chunks) == 0 {
		return "", nil
	}

	resultCh := make(chan chunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxInFlight)
	for i, chunk := range chunks {
		g.Go(func() error {
			resultCh <- chunkResult{index: i, text: d.processChunk(gctx, i, chunk)}
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	results := make([]chunkResult, 0, len(chunks))
	for r := range resultCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.text
	}
	return strings.Join(texts, "\n\n"), nil
}

func (d *Distiller) processChunk(ctx context.Context, index int, chunk string) string {
	resp, err := d.retrier.complete(ctx, BuildPrompt(chunk, d.cfg.Instruction))
	if err != nil {
		d.logger.Warn("chunk completion failed",
			"chunk", index,
			"provider", d.cfg.Provider,
			"code", distill.ErrorCode(err),
			"err", err,
		)
		return ""
	}
	return ExtractContent(resp)
}
