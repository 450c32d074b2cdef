package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// restarted. Chrome's memory use grows with every page and never returns
// to its baseline, so long collections restart it periodically.
const DefaultMaxPages = 75

// BrowserManager owns a headless Chrome process and restarts it after
// maxPages pages. It is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages are rendered before a restart.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called to stop the browser process.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}
	if err := bm.launch(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Acquire returns the browser to render the next page with, restarting
// it first if it has rendered maxPages pages. Returns false once the
// manager is closed.
func (bm *BrowserManager) Acquire() (*rod.Browser, bool) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, false
	}
	if bm.maxPages > 0 && bm.pages >= bm.maxPages {
		bm.restart()
	}
	bm.pages++
	return bm.browser, true
}

// Close stops the browser. It is safe to call more than once.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.stop()
}

// LauncherPID returns the process ID of the running browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser, bm.launcher = browser, l
	return nil
}

// stop closes the browser and kills its process. Must be called with mu held.
func (bm *BrowserManager) stop() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// restart replaces the browser with a fresh one. The old browser is kept
// if a new one cannot be launched. Must be called with mu held.
func (bm *BrowserManager) restart() {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	if err := bm.launch(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.pages = 0
}
