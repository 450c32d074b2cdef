package pagecollect

import "context"

// CollectResult reports the outcome of storing one page.
type CollectResult struct {
	Page    *PageRecord `json:"page"`
	Created bool        `json:"created"`
}

// CollectSummary counts the outcomes of a batch collection.
type CollectSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Total returns the number of URLs processed.
func (s *CollectSummary) Total() int {
	return s.Created + s.Updated + s.Failed
}

// Collector adds pages to the collected set, applying the saved content
// settings: text is truncated to MaxContentLength and a new page is
// rejected with EINVALID once MaxStoredPages pages are stored.
type Collector interface {
	// Store saves a page that was already scraped, e.g. by a browser.
	Store(ctx context.Context, page *PageRecord) (*CollectResult, error)

	// Collect fetches, scrapes, and stores the page at url.
	Collect(ctx context.Context, url string) (*CollectResult, error)

	// CollectAll collects several pages concurrently. A failed URL is
	// reported through progress and counted but does not stop the batch.
	CollectAll(ctx context.Context, urls []string, progress CollectProgressFunc) (*CollectSummary, error)

	// CollectSitemap collects the pages listed in a site's sitemaps.
	CollectSitemap(ctx context.Context, baseURL string, filter *URLFilter, progress CollectProgressFunc) (*CollectSummary, error)

	// CollectLinks collects the page at url and the same-site pages it
	// links to from its main content.
	CollectLinks(ctx context.Context, url string, progress CollectProgressFunc) (*CollectSummary, error)
}
