// Package readability extracts the main article from HTML pages using
// go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/pagecollect"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagecollect.Extractor at compile time.
var _ pagecollect.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// Relative links in the content are resolved against pageURL when given.
func (e *Extractor) Extract(rawHTML, pageURL string) (*pagecollect.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return nil, pagecollect.Errorf(pagecollect.EINVALID, "invalid page URL: %v", err)
		}
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	return &pagecollect.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
