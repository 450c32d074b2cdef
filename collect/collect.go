// Package collect adds pages to the collected set. It fetches, scrapes, and
// stores pages while enforcing the saved content settings.
package collect

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/pagecollect"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of pages fetched at once.
const DefaultConcurrency = 4

var _ pagecollect.Collector = (*Collector)(nil)

// Collector implements pagecollect.Collector.
//
// Pages and Settings are required. Fetcher and Scraper are required for
// every method except Store. Extractors and Converter back the
// readability and trafilatura strategies; Sitemaps and Links are only
// needed by CollectSitemap and CollectLinks.
type Collector struct {
	Pages      pagecollect.PageService
	Settings   pagecollect.SettingsService
	Fetcher    pagecollect.Fetcher
	Scraper    pagecollect.Scraper
	Extractors map[pagecollect.ExtractionStrategy]pagecollect.Extractor
	Converter  pagecollect.Converter
	Sitemaps   pagecollect.SitemapService
	Links      pagecollect.LinkExtractor

	RateLimiter pagecollect.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Now returns the collection time. Defaults to time.Now.
	Now func() time.Time

	// mu serializes the page limit check with the upsert that follows it.
	mu sync.Mutex
}

// Store applies the content settings to page and saves it.
func (c *Collector) Store(ctx context.Context, page *pagecollect.PageRecord) (*pagecollect.CollectResult, error) {
	if page == nil {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "page required")
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	opts, err := c.Settings.FindOptions(ctx)
	if err != nil {
		return nil, err
	}
	cs := opts.ContentSettings

	page.Content.MainContent = Truncate(page.Content.MainContent, cs.MaxContentLength)
	page.Content.FullText = Truncate(page.Content.FullText, cs.MaxContentLength)
	if page.Timestamp.IsZero() {
		page.Timestamp = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkLimit(ctx, page.URL, cs.MaxStoredPages); err != nil {
		return nil, err
	}

	created, err := c.Pages.UpsertPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return &pagecollect.CollectResult{Page: page, Created: created}, nil
}

// checkLimit rejects a URL that is not yet stored once max pages are stored.
// Replacing a stored page is always allowed.
func (c *Collector) checkLimit(ctx context.Context, url string, max int) error {
	if max <= 0 {
		return nil
	}
	n, err := c.Pages.CountPages(ctx)
	if err != nil {
		return err
	}
	if n < max {
		return nil
	}
	if _, err := c.Pages.FindPageByURL(ctx, url); err == nil {
		return nil
	} else if pagecollect.ErrorCode(err) != pagecollect.ENOTFOUND {
		return err
	}
	return pagecollect.Errorf(pagecollect.EINVALID, "Page limit reached (%d pages). Remove some pages before collecting more.", max)
}

// Collect fetches, scrapes, and stores the page at url.
func (c *Collector) Collect(ctx context.Context, url string) (*pagecollect.CollectResult, error) {
	opts, err := c.Settings.FindOptions(ctx)
	if err != nil {
		return nil, err
	}
	page, err := c.process(ctx, url, opts.ContentSettings.ExtractionStrategy)
	if err != nil {
		return nil, err
	}
	return c.Store(ctx, page)
}

// collected is the outcome of fetching and scraping one URL of a batch.
type collected struct {
	position int
	url      string
	page     *pagecollect.PageRecord
	err      error
}

// CollectAll collects urls concurrently. Pages are stored in input order
// as soon as every earlier URL has finished, and progress is reported
// once per URL after its page is stored or has failed.
func (c *Collector) CollectAll(ctx context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	opts, err := c.Settings.FindOptions(ctx)
	if err != nil {
		return nil, err
	}
	strategy := opts.ContentSettings.ExtractionStrategy

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan collected, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, u := range urls {
			g.Go(func() error {
				page, err := c.process(gctx, u, strategy)
				resultCh <- collected{position: i, url: u, page: page, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	summary := &pagecollect.CollectSummary{}
	pending := make(map[int]collected)
	next := 0
	for res := range resultCh {
		pending[res.position] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			c.storeResult(ctx, r, summary, len(urls), progress)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (c *Collector) storeResult(ctx context.Context, r collected, summary *pagecollect.CollectSummary, total int, progress pagecollect.CollectProgressFunc) {
	ev := pagecollect.CollectProgress{URL: r.url, Total: total, Error: r.err}
	if ev.Error == nil {
		res, err := c.Store(ctx, r.page)
		if err != nil {
			ev.Error = err
		} else {
			ev.Created = res.Created
		}
	}

	switch {
	case ev.Error != nil:
		summary.Failed++
	case ev.Created:
		summary.Created++
	default:
		summary.Updated++
	}
	ev.Completed = summary.Total()

	if progress != nil {
		progress(ev)
	}
}

// CollectSitemap collects every URL listed in the sitemaps of baseURL that
// passes filter.
func (c *Collector) CollectSitemap(ctx context.Context, baseURL string, filter *pagecollect.URLFilter, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL, filter)
	if err != nil {
		return nil, err
	}
	return c.CollectAll(ctx, urls, progress)
}

// CollectLinks collects the page at url followed by the same-site pages
// linked from its main content.
func (c *Collector) CollectLinks(ctx context.Context, url string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
	html, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	links, err := c.Links.ExtractLinks(html, url)
	if err != nil {
		return nil, err
	}
	return c.CollectAll(ctx, append([]string{url}, links...), progress)
}

// process fetches url and turns it into a page record.
func (c *Collector) process(ctx context.Context, url string, strategy pagecollect.ExtractionStrategy) (*pagecollect.PageRecord, error) {
	html, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.scrape(html, url, strategy)
}

func (c *Collector) fetch(ctx context.Context, url string) (string, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, hostOf(url)); err != nil {
			return "", err
		}
	}
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, url, c.Fetcher.Fetch, delays)
}

// scrape builds a page record from html using strategy for the main content.
// Article strategies fall back to the scraped main content when no
// extractor is configured for them or the extractor finds no article.
func (c *Collector) scrape(html, url string, strategy pagecollect.ExtractionStrategy) (*pagecollect.PageRecord, error) {
	res, err := c.Scraper.Scrape(html, url)
	if err != nil {
		return nil, err
	}
	page := &pagecollect.PageRecord{
		URL:   url,
		Title: res.Title,
		Content: pagecollect.PageContent{
			MainContent: res.MainContent,
			FullText:    res.FullText,
		},
		Timestamp: c.now(),
	}

	switch strategy {
	case pagecollect.StrategyFull:
		page.Content.MainContent = res.FullText
	case pagecollect.StrategyReadability, pagecollect.StrategyTrafilatura:
		ext, ok := c.Extractors[strategy]
		if !ok || c.Converter == nil {
			break
		}
		article, err := ext.Extract(html, url)
		if err != nil {
			return nil, err
		}
		if page.Title == "" {
			page.Title = article.Title
		}
		// No article found: keep the scraped main content.
		if strings.TrimSpace(article.ContentHTML) == "" {
			break
		}
		md, err := c.Converter.Convert(article.ContentHTML, url)
		if err != nil {
			return nil, err
		}
		page.Content.MainContent = md
	}
	return page, nil
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

// Truncate returns s cut to at most n runes. A non-positive n leaves s whole.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
