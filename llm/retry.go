package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/distill"
)

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type retryState int

const (
	stateAttempting retryState = iota
	stateBackoff
	stateSucceeded
	stateExhausted
	stateFailed
)

// retrier drives one completion through the retry states:
// attempting -> backoff -> attempting, ending in succeeded, exhausted or
// failed. Only retryable errors lead to backoff.
type retrier struct {
	completer distill.Completer
	limiter   distill.RateLimiter
	key       string
	backoff   distill.BackoffConfig
	sleep     SleepFunc
}

func (r *retrier) complete(ctx context.Context, prompt string) (string, error) {
	var (
		state   = stateAttempting
		attempt = 1
		resp    string
		err     error
	)
	for {
		switch state {
		case stateAttempting:
			if r.limiter != nil {
				if err = r.limiter.Wait(ctx, r.key); err != nil {
					state = stateFailed
					continue
				}
			}
			resp, err = r.completer.Complete(ctx, prompt)
			switch {
			case err == nil:
				state = stateSucceeded
			case !distill.IsRetryable(err):
				state = stateFailed
			case attempt >= r.backoff.MaxAttempts:
				state = stateExhausted
			default:
				state = stateBackoff
			}
		case stateBackoff:
			if err = r.sleep(ctx, r.backoff.Delay(attempt)); err != nil {
				state = stateFailed
				continue
			}
			attempt++
			state = stateAttempting
		case stateSucceeded:
			return resp, nil
		case stateExhausted:
			return "", fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		case stateFailed:
			return "", err
		}
	}
}
