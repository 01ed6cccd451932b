package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/distill"
	"golang.org/x/time/rate"
)

var _ distill.RateLimiter = (*KeyLimiter)(nil)

// KeyLimiter paces requests with a separate token bucket per key, so
// different domains or model providers do not slow each other down.
type KeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewKeyLimiter creates a KeyLimiter allowing rps requests per second for
// each key, without bursting.
func NewKeyLimiter(rps float64) *KeyLimiter {
	return &KeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until key's bucket allows a request or ctx is done.
func (l *KeyLimiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
