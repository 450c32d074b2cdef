package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagecollect"
)

// Ensure SitemapService implements pagecollect.SitemapService.
var _ pagecollect.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs finds all URLs listed in a site's sitemaps.
// Returns an empty slice (not nil) if no sitemaps are found.
//
// When baseURL has a non-root path (e.g., https://example.com/blog/),
// only URLs under that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagecollect.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "invalid base URL %q", baseURL)
	}

	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.findSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalker{
		svc:      s,
		sitemaps: make(map[string]bool),
		urls:     make(map[string]bool),
	}
	for _, sitemapURL := range sitemaps {
		if err := w.walk(ctx, sitemapURL); err != nil {
			return nil, err
		}
	}

	result := make([]string, 0, len(w.found))
	for _, u := range w.found {
		if prefix != "" && !underPath(u, prefix) {
			continue
		}
		if filter.Match(u) {
			result = append(result, u)
		}
	}
	return result, nil
}

// underPath reports whether rawURL's path is prefix or lies below it.
// Matching respects path segments: /docs matches /docs/intro but not
// /documentation.
func underPath(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// findSitemaps returns the sitemaps declared in robots.txt, falling back to
// /sitemap.xml when robots.txt declares none.
func (s *SitemapService) findSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		// Only cancellation is fatal; anything else means no sitemap.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps returns the Sitemap: directives of a robots.txt file.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) <= len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// sitemapWalker collects page URLs from a tree of sitemaps, visiting each
// sitemap once and keeping the first occurrence of each page URL.
type sitemapWalker struct {
	svc      *SitemapService
	sitemaps map[string]bool
	urls     map[string]bool
	found    []string
}

func (w *sitemapWalker) walk(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.sitemaps[sitemapURL] {
		return nil
	}
	w.sitemaps[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range locs(root, "sitemap") {
			if err := w.walk(ctx, loc); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range locs(root, "url") {
		if !w.urls[loc] {
			w.urls[loc] = true
			w.found = append(w.found, loc)
		}
	}
	return nil
}

// locs returns the non-empty <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// get fetches a URL and returns the body of a 200 response.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

// exists reports whether a HEAD request for target returns 200 OK.
func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
