// Package http provides the HTTP page fetcher and the JSON API of the
// distillation engine.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the fetcher to servers.
const DefaultUserAgent = "distill/1.0 (+https://github.com/fwojciec/distill)"

// maxBodyBytes caps the size of a fetched page.
const maxBodyBytes = 20 << 20

var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain GET requests. It does not run
// JavaScript; use rod.Fetcher for client-rendered sites.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the body of url decoded as UTF-8, replacing invalid
// sequences. Statuses other than 200 are errors: 404 is ENOTFOUND, 429
// ERATELIMIT and 5xx EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "invalid url %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", distill.Errorf(distill.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", distill.Errorf(distill.EUNAVAILABLE, "read %s: %v", url, err)
	}
	return strings.ToValidUTF8(string(body), "�"), nil
}

func statusError(status int, url string) error {
	code := distill.EINTERNAL
	switch {
	case status == http.StatusNotFound:
		code = distill.ENOTFOUND
	case status == http.StatusTooManyRequests:
		code = distill.ERATELIMIT
	case status >= 500:
		code = distill.EUNAVAILABLE
	}
	return distill.Errorf(code, "HTTP %d for %s", status, url)
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}
