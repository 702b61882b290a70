package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which names the file.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
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

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatResult renders a one-line crawl summary. Tokens are omitted when
// tokens is negative.
func FormatResult(r *Result, tokens int) string {
	s := fmt.Sprintf("Extracted %d files from %d directories (%s)", len(r.Files), r.Directories, FormatBytes(r.Bytes))
	if tokens >= 0 {
		s += ", " + FormatTokens(tokens)
	}
	if r.Empty > 0 {
		s += fmt.Sprintf(", %d empty", r.Empty)
	}
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	return s
}
