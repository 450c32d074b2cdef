package collect

import (
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/pagecollect"
)

// TruncateURL shortens a URL for display to at most maxLen runes, keeping
// the end, which usually tells pages apart.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(url)
	if n <= maxLen {
		return url
	}
	runes := []rune(url)
	if maxLen < 4 {
		return string(runes[:maxLen])
	}
	return "..." + string(runes[n-maxLen+3:])
}

// FormatBytes formats a size in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatSummary describes the outcome of a batch collection.
func FormatSummary(s *pagecollect.CollectSummary) string {
	msg := fmt.Sprintf("Collected %d new, %d updated", s.Created, s.Updated)
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.Failed)
	}
	return msg
}
