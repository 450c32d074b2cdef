package fs

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fwojciec/pagecollect"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative markdown file path rooted
// at the URL's host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
//
// Paths that would escape the output directory are rejected.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "invalid page URL %q", rawURL)
	}
	if u.Host == "" {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "page URL %q has no host", rawURL)
	}

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p += "index.md"
	default:
		p = strings.TrimSuffix(p, ".html") + ".md"
	}

	host := strings.ReplaceAll(u.Host, ":", "_")
	rel := filepath.Join(host, filepath.FromSlash(p))
	if !filepath.IsLocal(rel) || !strings.HasPrefix(rel, host+string(filepath.Separator)) {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "path traversal in page URL %q", rawURL)
	}
	return rel, nil
}

// frontMatter is the YAML header of an exported page.
type frontMatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title"`
	Collected string `yaml:"collected,omitempty"`
}

// FormatPage renders a page's main content as markdown with YAML
// frontmatter.
func FormatPage(page *pagecollect.PageRecord) (string, error) {
	fm := frontMatter{Source: page.URL, Title: page.Title}
	if !page.Timestamp.IsZero() {
		fm.Collected = page.Timestamp.UTC().Format("2006-01-02")
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter for %s: %w", page.URL, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Content.MainContent)
	if !strings.HasSuffix(page.Content.MainContent, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}
