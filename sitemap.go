package pagecollect

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs listed in a site's sitemaps, checking
	// robots.txt for Sitemap directives before falling back to /sitemap.xml.
	// A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern.
type URLFilter struct {
	// Include patterns. When set, a URL must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns, applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns into a filter.
// Returns nil when no patterns are given.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	f := &URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether the URL passes the filter. A nil filter matches everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
