package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagecollect"
)

// Ensure LoggingSitemapService implements pagecollect.SitemapService.
var _ pagecollect.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   pagecollect.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next pagecollect.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs how many URLs
// were found and how many filter patterns were applied.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagecollect.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		var include, exclude int
		if filter != nil {
			include, exclude = len(filter.Include), len(filter.Exclude)
		}
		attrs := []slog.Attr{
			slog.String("url", baseURL),
			slog.Int("include_patterns", include),
			slog.Int("exclude_patterns", exclude),
			slog.Int("count", len(urls)),
			slog.Duration("duration", time.Since(begin)),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("err", err))
		}
		s.logger.LogAttrs(ctx, levelFor(slog.LevelInfo, err), "sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
