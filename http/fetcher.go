// Package http provides HTTP implementations of pagecollect services: a
// static page fetcher, a sitemap reader, and the JSON API server used by
// browser front-ends.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/pagecollect"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxPageSize bounds how much of a response body is read.
const DefaultMaxPageSize = 10 << 20

// DefaultUserAgent identifies page requests.
const DefaultUserAgent = "pagecollect/1.0 (+https://github.com/fwojciec/pagecollect)"

// Ensure Fetcher implements pagecollect.Fetcher at compile time.
var _ pagecollect.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML using plain HTTP requests. It does not run
// JavaScript; use rod.Fetcher for pages rendered on the client.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxPageSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPageSize sets how many bytes of a page are read at most.
func WithMaxPageSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxPageSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}
