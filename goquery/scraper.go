// Package goquery scrapes visible text and links from HTML using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagecollect"
	"golang.org/x/net/html"
)

// Selectors used to find a page's main content region.
const (
	// MainSelector matches elements that hold the primary content.
	MainSelector = `main, article, [role="main"]`

	// ChromeSelector matches navigation regions dropped from the body when
	// no main content element exists.
	ChromeSelector = `nav, header, footer, aside, [role="navigation"], [role="banner"], [role="contentinfo"]`
)

// Ensure Scraper implements pagecollect.Scraper at compile time.
var _ pagecollect.Scraper = (*Scraper)(nil)

// Scraper extracts a page's visible text the way a browser's innerText
// would: block elements start new lines, runs of whitespace collapse, and
// scripts, styles, and hidden elements are skipped.
type Scraper struct {
	full bool
}

// NewScraper creates a Scraper for the given strategy. StrategyFull uses the
// whole body as main content; every other strategy uses the smart region.
func NewScraper(strategy pagecollect.ExtractionStrategy) *Scraper {
	return &Scraper{full: strategy == pagecollect.StrategyFull}
}

// Scrape returns the page title, the text of the whole body, and the text
// of the main content region.
func (s *Scraper) Scrape(rawHTML, pageURL string) (*pagecollect.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "failed to parse HTML: %v", err)
	}

	body := doc.Find("body")
	result := &pagecollect.ScrapeResult{
		URL:      pageURL,
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		FullText: VisibleText(body),
	}

	if s.full {
		result.MainContent = result.FullText
	} else {
		result.MainContent = VisibleText(mainRegion(doc))
	}
	return result, nil
}

// mainRegion returns the article body of a recognized documentation site,
// the first main content element, or a copy of body without its navigation
// regions. The document itself is never modified.
func mainRegion(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body")
	if sel := detectSite(doc).ContentSelector(); sel != "" {
		if content := body.Find(sel).First(); content.Length() > 0 {
			return content
		}
	}
	if main := body.Find(MainSelector).First(); main.Length() > 0 {
		return main
	}
	region := body.Clone()
	region.Find(ChromeSelector).Remove()
	return region
}

// VisibleText returns the rendered text of a selection.
func VisibleText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n, false)
	}
	return normalizeText(b.String())
}

// skipElements are never rendered as text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"svg":      true,
	"iframe":   true,
}

// blockElements start and end a line of text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true, "tr": true,
	"ul": true, "td": true, "th": true, "caption": true,
}

// writeText renders n into b. Outside preformatted elements, line breaks
// in source text are rendered as spaces.
func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
		} else {
			b.WriteString(strings.Map(flattenSpace, n.Data))
		}
		return
	case html.ElementNode:
		if (skipElements[n.Data] && !isShadowRoot(n)) || isHidden(n) {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	pre = pre || (n.Type == html.ElementNode && (n.Data == "pre" || n.Data == "textarea"))
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, pre)
	}
	if block {
		b.WriteByte('\n')
	}
}

func flattenSpace(r rune) rune {
	switch r {
	case '\n', '\r', '\t', '\f':
		return ' '
	}
	return r
}

// isShadowRoot reports whether n is a declarative shadow root, which a
// browser renders in place of its host's children.
func isShadowRoot(n *html.Node) bool {
	if n.Data != "template" {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "shadowrootmode" || a.Key == "shadowroot" {
			return true
		}
	}
	return false
}

// isHidden reports whether an element is hidden from rendering by markup.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch {
		case a.Key == "hidden":
			return true
		case a.Key == "aria-hidden" && a.Val == "true":
			return true
		case a.Key == "style" && strings.Contains(strings.ReplaceAll(a.Val, " ", ""), "display:none"):
			return true
		}
	}
	return false
}

// normalizeText collapses whitespace within lines and drops empty lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
