package pagecollect

// ScrapeResult holds the text scraped from a rendered page.
type ScrapeResult struct {
	URL         string
	Title       string
	MainContent string
	FullText    string
}

// Scraper extracts visible text from a page's HTML.
type Scraper interface {
	// Scrape returns the page title, the full body text, and the text of
	// the page's main content region. pageURL is used to resolve links.
	Scrape(html, pageURL string) (*ScrapeResult, error)
}

// ExtractResult is the article found in a page by an Extractor.
type ExtractResult struct {
	Title string

	// ContentHTML is the article markup without navigation, footers and
	// sidebars. It is empty when no article was found.
	ContentHTML string
}

// Extractor finds the main article of a page. It backs the readability and
// trafilatura extraction strategies.
type Extractor interface {
	Extract(html, pageURL string) (*ExtractResult, error)
}

// Converter turns extracted article HTML into Markdown page text. pageURL,
// when set, makes relative links absolute.
type Converter interface {
	Convert(html, pageURL string) (string, error)
}

// LinkExtractor finds links to other pages on the same site.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs of same-host links in the
	// page, deduplicated, in document order. Fragments are stripped and
	// links back to the page itself are skipped.
	ExtractLinks(html, pageURL string) ([]string, error)
}
