// Package trafilatura extracts the main article from HTML pages using
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/pagecollect"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ pagecollect.Extractor = (*Extractor)(nil)

// Extractor implements pagecollect.Extractor with go-trafilatura.
type Extractor struct {
	// KeepComments keeps reader comment sections in the article.
	KeepComments bool
}

// NewExtractor returns an Extractor that drops comment sections and keeps
// links so the converter can render them.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article of rawHTML. An empty ContentHTML means
// trafilatura found no article; callers should fall back to other text.
func (e *Extractor) Extract(rawHTML, pageURL string) (*pagecollect.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: !e.KeepComments,
		IncludeLinks:    true,
	}
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, pagecollect.Errorf(pagecollect.EINVALID, "invalid page URL: %v", err)
		}
		opts.OriginalURL = u
	}

	doc, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	res := &pagecollect.ExtractResult{Title: strings.TrimSpace(doc.Metadata.Title)}
	if doc.ContentNode == nil {
		return res, nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc.ContentNode); err != nil {
		return nil, err
	}
	res.ContentHTML = buf.String()
	return res, nil
}
