package pagecollect

import (
	"context"
	"fmt"
	"strings"
)

// TokenCounter reports how many tokens a prompt will use.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// pageSeparator is placed between page blocks in a prompt.
const pageSeparator = "---\n\n"

// BuildPrompt combines collected pages and a question into one prompt.
// Pages appear in the given order, each under a "### Page:" header.
// Content is passed through as-is.
func BuildPrompt(pages []*PageRecord, question string) string {
	blocks := make([]string, 0, len(pages))
	for _, page := range pages {
		blocks = append(blocks, FormatPage(page))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I'm going to provide you with content from %d web pages I've collected. Please analyze this content and respond to my question.\n\n", len(pages))
	sb.WriteString(strings.Join(blocks, pageSeparator))
	sb.WriteString("\n\nBased on the web content above, ")
	sb.WriteString(question)
	return sb.String()
}

// FormatPage formats a single page block for a prompt.
func FormatPage(page *PageRecord) string {
	return fmt.Sprintf("### Page: %s\n### URL: %s\n\n%s\n\n", page.Title, page.URL, page.Content.MainContent)
}
