package pagecollect

import "context"

// Fetcher retrieves the HTML of a page. Browser-backed fetchers return the
// rendered DOM, so script-built text is included.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browsers or connections held by the fetcher.
	Close() error
}

// DomainLimiter spaces out requests to the same host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
