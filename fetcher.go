package distill

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RateLimiter paces requests per key, such as a domain or a model provider.
type RateLimiter interface {
	// Wait blocks until the rate limit allows a request for key.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, key string) error
}
