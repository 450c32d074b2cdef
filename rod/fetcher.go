// Package rod fetches JavaScript-rendered pages with a headless Chrome
// browser, for sites whose text is not present in the served HTML.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/pagecollect"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds how long one page may take to render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements pagecollect.Fetcher at compile time.
var _ pagecollect.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using browser automation.
// It is safe for concurrent use; each Fetch opens its own tab.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout  time.Duration
	maxPages int
}

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithRecycleAfter sets how many pages are rendered before the browser restarts.
func WithRecycleAfter(n int) Option {
	return func(c *fetcherConfig) {
		c.maxPages = n
	}
}

// NewFetcher launches a headless browser. Close must be called when done.
// Returns an error if Chrome cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(WithMaxPages(cfg.maxPages))
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: cfg.timeout}, nil
}

// Fetch loads url in a new tab and returns the rendered document, with
// open shadow roots serialized inline.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, ok := f.manager.Acquire()
	if !ok {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "fetcher is closed")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	res, err := page.Eval(`() => document.documentElement.getHTML({serializableShadowRoots: true, shadowRoots: Array.from(document.querySelectorAll('*')).map(e => e.shadowRoot).filter(Boolean)})`)
	if err != nil {
		// Browsers without getHTML still give the light DOM.
		return page.HTML()
	}
	return "<!DOCTYPE html>\n<html>" + res.Value.Str() + "</html>", nil
}

// Close stops the browser. It is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the browser launcher's process ID.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
