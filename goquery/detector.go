package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Site identifies the documentation generator that produced a page.
type Site string

// Recognized documentation generators.
const (
	SiteUnknown    Site = ""
	SiteDocusaurus Site = "docusaurus"
	SiteMkDocs     Site = "mkdocs"
	SiteSphinx     Site = "sphinx"
	SiteVitePress  Site = "vitepress"
	SiteVuePress   Site = "vuepress"
	SiteGitBook    Site = "gitbook"
	SiteNextra     Site = "nextra"
)

// contentSelectors match the article body of each generator's pages. They
// are narrower than MainSelector: a generator's <main> usually also holds
// sidebars, tables of contents, and pagination.
var contentSelectors = map[Site]string{
	SiteDocusaurus: `.theme-doc-markdown, article`,
	SiteMkDocs:     `.md-content__inner, .md-content`,
	SiteSphinx:     `div[itemprop="articleBody"], div.body, div.document`,
	SiteVitePress:  `.vp-doc, .VPDoc`,
	SiteVuePress:   `.theme-default-content`,
	SiteGitBook:    `main`,
	SiteNextra:     `article, main`,
}

// ContentSelector returns the selector for the site's article body, or ""
// for unknown sites.
func (s Site) ContentSelector() string {
	return contentSelectors[s]
}

// DetectSite parses rawHTML and reports which generator produced it.
func DetectSite(rawHTML string) Site {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return SiteUnknown
	}
	return detectSite(doc)
}

// detectSite checks the generator meta tag first, then markup that is
// unique to each generator's default theme.
func detectSite(doc *goquery.Document) Site {
	if site := siteFromGenerator(doc); site != SiteUnknown {
		return site
	}

	has := func(selector string) bool {
		return doc.Find(selector).Length() > 0
	}

	switch {
	case has("#__docusaurus_skipToContent_fallback"),
		has(".theme-doc-sidebar-container"),
		has("[data-rh]") && has("[data-theme]"):
		return SiteDocusaurus
	case has("[data-md-color-scheme]"), has("[data-md-component]"), has(".md-nav--primary"):
		return SiteMkDocs
	case has(".toctree-wrapper"), has(".wy-nav-side"), has(".wy-menu-vertical"), has(".sphinxsidebar"):
		return SiteSphinx
	// VitePress before VuePress: it is the successor and shares some markup.
	case has("#VPContent"), has(".VPDoc"), has(".VPDocAsideOutline"):
		return SiteVitePress
	case has(".theme-default-content"), has(".sidebar-links"), has(".vuepress-navbar"):
		return SiteVuePress
	case has("[data-testid='space.sidebar']"), has("[data-testid='page.desktopTableOfContents']"), hasGitBookClasses(doc):
		return SiteGitBook
	case has(".nextra-navbar"), has(".nextra-sidebar"), has(".nextra-toc"):
		return SiteNextra
	}
	return SiteUnknown
}

func siteFromGenerator(doc *goquery.Document) Site {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return SiteUnknown
	}

	for _, site := range []Site{SiteSphinx, SiteGitBook, SiteDocusaurus, SiteMkDocs, SiteVitePress, SiteVuePress, SiteNextra} {
		if strings.Contains(generator, string(site)) {
			return site
		}
	}
	return SiteUnknown
}

// hasGitBookClasses reports whether the html element carries at least two of
// GitBook's theme classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class := doc.Find("html").AttrOr("class", "")
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
