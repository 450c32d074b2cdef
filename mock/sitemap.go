package mock

import (
	"context"

	"github.com/fwojciec/pagecollect"
)

var _ pagecollect.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pagecollect.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *pagecollect.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagecollect.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
