package pagecollect

import (
	"context"
	"time"
)

// PageRecord represents the extracted text of one collected web page.
// The URL is unique within the collected set.
type PageRecord struct {
	URL       string      `json:"url"`
	Title     string      `json:"title"`
	Content   PageContent `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// ContentHash identifies the stored text. Set by the PageService; it is
	// not part of exports.
	ContentHash string `json:"-"`
}

// PageContent holds the text extracted from a page.
type PageContent struct {
	// MainContent is the text of the page's primary content region.
	// This is what gets sent to the LLM.
	MainContent string `json:"mainContent"`

	// FullText is the visible text of the whole page body.
	FullText string `json:"fullText"`
}

// Validate returns an error if the page contains invalid fields.
func (p *PageRecord) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// PageService represents a service for managing collected pages.
// Pages are kept in collection order.
type PageService interface {
	// UpsertPage stores a page. A page whose URL is already collected is
	// replaced in place and keeps its position; otherwise it is appended.
	// Reports whether a new page was created.
	UpsertPage(ctx context.Context, page *PageRecord) (created bool, err error)

	// FindPageByURL retrieves a page by URL.
	// Returns ENOTFOUND if the page does not exist.
	FindPageByURL(ctx context.Context, url string) (*PageRecord, error)

	// FindPages retrieves pages matching the filter in collection order.
	FindPages(ctx context.Context, filter PageFilter) ([]*PageRecord, error)

	// CountPages returns the number of collected pages.
	CountPages(ctx context.Context) (int, error)

	// DeletePage removes a single page.
	// Returns ENOTFOUND if the page does not exist.
	DeletePage(ctx context.Context, url string) error

	// DeleteAllPages removes every collected page.
	DeleteAllPages(ctx context.Context) error
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CollectProgress reports progress while collecting several pages.
type CollectProgress struct {
	URL       string
	Completed int
	Total     int
	Created   bool
	Error     error
}

// CollectProgressFunc is called as pages are collected.
type CollectProgressFunc func(CollectProgress)

// PageStore writes pages to an output location with atomic semantics.
// Pages are staged by Save and only become visible on Commit.
type PageStore interface {
	// Save stages a page for output.
	Save(ctx context.Context, page *PageRecord) error

	// Commit publishes all staged pages, replacing any previous output.
	Commit() error

	// Abort discards all staged pages.
	Abort() error
}
