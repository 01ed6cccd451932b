package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
)

// Wait strategy polling parameters.
const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultWaitTimeout  = 10 * time.Second
)

// WaitStrategy decides when a loaded page is ready to be read.
type WaitStrategy interface {
	// ready reports whether the page is ready.
	ready(page *rod.Page) (bool, error)
	// delay is a fixed pause used instead of polling when positive.
	delay() time.Duration
	String() string
}

type fixedWait time.Duration

// WaitFixed pauses for d after the page loads.
func WaitFixed(d time.Duration) WaitStrategy { return fixedWait(d) }

func (w fixedWait) ready(*rod.Page) (bool, error) { return true, nil }
func (w fixedWait) delay() time.Duration          { return time.Duration(w) }
func (w fixedWait) String() string                { return "fixed:" + time.Duration(w).String() }

type selectorWait string

// WaitSelector polls until an element matches the CSS selector.
func WaitSelector(css string) WaitStrategy { return selectorWait(css) }

func (w selectorWait) ready(page *rod.Page) (bool, error) {
	has, _, err := page.Has(string(w))
	return has, err
}
func (w selectorWait) delay() time.Duration { return 0 }
func (w selectorWait) String() string       { return "css:" + string(w) }

type jsWait string

// WaitJS polls until the JavaScript expression is truthy.
func WaitJS(condition string) WaitStrategy { return jsWait(condition) }

func (w jsWait) ready(page *rod.Page) (bool, error) {
	res, err := page.Eval(`() => Boolean(` + string(w) + `)`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}
func (w jsWait) delay() time.Duration { return 0 }
func (w jsWait) String() string       { return "js:" + string(w) }

// Poll calls check every interval until it reports true, ctx is done or
// timeout elapses. It reports whether the condition was met; a timeout is
// not an error. Errors from check count as "not yet".
func Poll(ctx context.Context, interval, timeout time.Duration, check func() (bool, error)) (bool, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ok, err := check(); err == nil && ok {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
		}
	}
}
