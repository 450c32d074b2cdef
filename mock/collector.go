package mock

import (
	"context"

	"github.com/fwojciec/pagecollect"
)

var _ pagecollect.Collector = (*Collector)(nil)

// Collector is a mock implementation of pagecollect.Collector.
type Collector struct {
	StoreFn          func(ctx context.Context, page *pagecollect.PageRecord) (*pagecollect.CollectResult, error)
	CollectFn        func(ctx context.Context, url string) (*pagecollect.CollectResult, error)
	CollectAllFn     func(ctx context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error)
	CollectSitemapFn func(ctx context.Context, baseURL string, filter *pagecollect.URLFilter, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error)
	CollectLinksFn   func(ctx context.Context, url string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error)
}

func (c *Collector) Store(ctx context.Context, page *pagecollect.PageRecord) (*pagecollect.CollectResult, error) {
	return c.StoreFn(ctx, page)
}

func (c *Collector) Collect(ctx context.Context, url string) (*pagecollect.CollectResult, error) {
	return c.CollectFn(ctx, url)
}

func (c *Collector) CollectAll(ctx context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	return c.CollectAllFn(ctx, urls, progress)
}

func (c *Collector) CollectSitemap(ctx context.Context, baseURL string, filter *pagecollect.URLFilter, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	return c.CollectSitemapFn(ctx, baseURL, filter, progress)
}

func (c *Collector) CollectLinks(ctx context.Context, url string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	return c.CollectLinksFn(ctx, url, progress)
}
