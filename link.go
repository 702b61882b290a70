package repodoc

import "strings"

// Markers and defaults for repository listing pages.
const (
	// DefaultLinkClass is the CSS class carried by file and directory anchors
	// on a repository listing page.
	DefaultLinkClass = "Link--primary"

	// FileMarker appears in the accessibility label of file anchors.
	FileMarker = "(File)"

	// DirectoryMarker appears in the accessibility label of directory anchors.
	DirectoryMarker = "(Directory)"

	// ExcludedSubstring names the dependency-cache directory whose subtree
	// is never crawled.
	ExcludedSubstring = "node_modules"
)

// chromeLabels are UI-chrome link texts that share the marker class
// but never point into the repository tree.
var chromeLabels = map[string]bool{
	"Releases":     true,
	"Packages":     true,
	"Contributors": true,
}

// LinkKind distinguishes file anchors from directory anchors.
type LinkKind int

// Link kinds.
const (
	LinkFile LinkKind = iota + 1
	LinkDirectory
)

// String returns a lowercase name for the kind.
func (k LinkKind) String() string {
	switch k {
	case LinkFile:
		return "file"
	case LinkDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Anchor is a marker-class element read from a rendered page.
type Anchor struct {
	Href  string // absolute URL
	Label string // accessibility label (aria-label)
	Text  string // visible text
}

// PageLink is a classified anchor.
type PageLink struct {
	URL  string
	Kind LinkKind
	Text string
}

// IsExcluded reports whether s names a path inside the excluded
// dependency-cache directory.
func IsExcluded(s string) bool {
	return strings.Contains(s, ExcludedSubstring)
}

// IsChromeLabel reports whether text is empty or one of the UI-chrome labels
// that share the marker class with tree entries.
func IsChromeLabel(text string) bool {
	text = strings.TrimSpace(text)
	return text == "" || chromeLabels[text]
}

// FilterChrome returns the anchors whose display text is neither empty nor
// a UI-chrome label. Order is preserved.
func FilterChrome(anchors []Anchor) []Anchor {
	out := make([]Anchor, 0, len(anchors))
	for _, a := range anchors {
		if IsChromeLabel(a.Text) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ClassifyLinks splits anchors into file links and directory links using the
// accessibility label markers. Directory links whose URL or label contains
// the excluded substring are dropped. When filterChrome is set, anchors with
// empty or UI-chrome display text are ignored first.
// Both slices keep document order.
func ClassifyLinks(anchors []Anchor, filterChrome bool) (files, dirs []PageLink) {
	if filterChrome {
		anchors = FilterChrome(anchors)
	}

	for _, a := range anchors {
		if a.Href == "" {
			continue
		}
		text := strings.TrimSpace(a.Text)
		switch {
		case strings.Contains(a.Label, FileMarker):
			files = append(files, PageLink{URL: a.Href, Kind: LinkFile, Text: text})
		case strings.Contains(a.Label, DirectoryMarker):
			if IsExcluded(a.Href) || IsExcluded(a.Label) {
				continue
			}
			dirs = append(dirs, PageLink{URL: a.Href, Kind: LinkDirectory, Text: text})
		}
	}
	return files, dirs
}
