package mock

import "github.com/fwojciec/pagecollect"

// Compile-time interface verification.
var (
	_ pagecollect.Scraper   = (*Scraper)(nil)
	_ pagecollect.Extractor = (*Extractor)(nil)
	_ pagecollect.Converter = (*Converter)(nil)
)

// Scraper is a mock implementation of pagecollect.Scraper.
type Scraper struct {
	ScrapeFn func(html, pageURL string) (*pagecollect.ScrapeResult, error)
}

func (s *Scraper) Scrape(html, pageURL string) (*pagecollect.ScrapeResult, error) {
	return s.ScrapeFn(html, pageURL)
}

// Extractor is a mock implementation of pagecollect.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*pagecollect.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*pagecollect.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

// Converter is a mock implementation of pagecollect.Converter.
type Converter struct {
	ConvertFn func(html, pageURL string) (string, error)
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}

var _ pagecollect.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of pagecollect.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, pageURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html, pageURL string) ([]string, error) {
	return e.ExtractLinksFn(html, pageURL)
}
