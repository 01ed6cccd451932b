package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced.
const DefaultMaxPages = 75

// BrowserManager owns the Chrome process behind a Fetcher and replaces it
// after maxPages pages, since Chrome's memory use only grows under load.
// It is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	maxPages int64
	headless bool
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser renders before recycling.
func WithMaxPages(n int64) ManagerOption {
	return func(m *BrowserManager) {
		m.maxPages = n
	}
}

// WithHeadless toggles headless mode. Browsers are headless by default.
func WithHeadless(headless bool) ManagerOption {
	return func(m *BrowserManager) {
		m.headless = headless
	}
}

// NewBrowserManager launches Chrome. Close must be called when done.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{maxPages: DefaultMaxPages, headless: true}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns the live browser, recycling it first when it has
// rendered maxPages pages.
func (m *BrowserManager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pages.Load() >= m.maxPages {
		m.recycle()
	}
	return m.browser
}

// PageDone counts a rendered page toward recycling.
func (m *BrowserManager) PageDone() {
	m.pages.Add(1)
}

// Close stops Chrome. Later calls are no-ops.
func (m *BrowserManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown()
}

// LauncherPID returns the pid of the Chrome launcher, or 0 after Close.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

func (m *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(m.headless)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}
	m.browser, m.launcher = browser, l
	return nil
}

// shutdown must be called with mu held.
func (m *BrowserManager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle keeps the old browser when a new one cannot be launched.
// It must be called with mu held.
func (m *BrowserManager) recycle() {
	oldBrowser, oldLauncher := m.browser, m.launcher
	if err := m.launch(); err != nil {
		m.browser, m.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	m.pages.Store(0)
}
