package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/pagecollect"
)

// Ensure LoggingFetcher implements pagecollect.Fetcher.
var _ pagecollect.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Successful fetches are
// logged at debug level, since a batch collection makes many of them;
// failures at info.
type LoggingFetcher struct {
	next   pagecollect.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagecollect.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the URL, its host, and
// the page size.
func (f *LoggingFetcher) Fetch(ctx context.Context, rawURL string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []slog.Attr{
			slog.String("url", rawURL),
			slog.String("host", hostOf(rawURL)),
			slog.Int("bytes", len(html)),
			slog.Duration("duration", time.Since(begin)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("kind", pagecollect.ErrorCode(err)), slog.Any("err", err))
		}
		f.logger.LogAttrs(ctx, levelFor(slog.LevelDebug, err), "page fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
