// Package rod fetches JavaScript-rendered pages with headless Chrome.
package rod

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation, load and the wait strategy of a
// single fetch.
const DefaultFetchTimeout = 30 * time.Second

var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher renders pages in Chrome and returns the resulting HTML.
// It is safe for concurrent use.
type Fetcher struct {
	manager      *BrowserManager
	managerOpts  []ManagerOption
	timeout      time.Duration
	wait         WaitStrategy
	pollInterval time.Duration
	waitTimeout  time.Duration
	logger       *slog.Logger
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWait sets the strategy applied after the load event.
func WithWait(w WaitStrategy) Option {
	return func(f *Fetcher) {
		f.wait = w
	}
}

// WithWaitTimeout bounds polling wait strategies.
func WithWaitTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.waitTimeout = d
	}
}

// WithLogger sets the logger wait timeouts are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithManagerOptions configures the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher launches Chrome. Close must be called when done.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		pollInterval: DefaultPollInterval,
		waitTimeout:  DefaultWaitTimeout,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	m, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, distill.Errorf(distill.EUNAVAILABLE, "start browser: %v", err)
	}
	f.manager = m
	return f, nil
}

// Fetch navigates to url, waits for the load event and the configured
// wait strategy, and returns the page HTML. A wait strategy that times
// out is logged and the page is read as it is.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", distill.Errorf(distill.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", distill.Errorf(distill.EUNAVAILABLE, "open page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if err := f.waitReady(ctx, page, url); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}
	f.manager.PageDone()
	return html, nil
}

func (f *Fetcher) waitReady(ctx context.Context, page *rod.Page, url string) error {
	if f.wait == nil {
		return nil
	}
	if d := f.wait.delay(); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}
	ok, err := Poll(ctx, f.pollInterval, f.waitTimeout, func() (bool, error) {
		return f.wait.ready(page)
	})
	if err != nil {
		return err
	}
	if !ok {
		f.logger.Warn("wait condition timed out, reading page as is",
			"url", url,
			"wait", f.wait.String(),
			"timeout", f.waitTimeout,
		)
	}
	return nil
}

// LauncherPID returns the pid of the Chrome launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close stops Chrome. Later calls are no-ops.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
