// Package goquery reads repository page markup with CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repodoc"
)

// Ensure Parser implements repodoc.MarkupParser at compile time.
var _ repodoc.MarkupParser = (*Parser)(nil)

// Parser implements repodoc.MarkupParser using goquery.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Anchors returns elements carrying class in document order, with hrefs
// resolved against baseURL. Elements without a usable href are skipped.
func (p *Parser) Anchors(html, class, baseURL string) ([]repodoc.Anchor, error) {
	if class == "" {
		return nil, repodoc.Errorf(repodoc.EINVALID, "link class required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, repodoc.Errorf(repodoc.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var anchors []repodoc.Anchor
	doc.Find("." + class).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		label, _ := sel.Attr("aria-label")
		anchors = append(anchors, repodoc.Anchor{
			Href:  resolved,
			Label: label,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})
	return anchors, nil
}

// Exists reports whether any element matches selector.
func (p *Parser) Exists(html, selector string) (bool, error) {
	doc, err := parse(html)
	if err != nil {
		return false, err
	}
	return doc.Find(selector).Length() > 0, nil
}

// Text returns the text of the first element matching selector, unmodified.
func (p *Parser) Text(html, selector string) (string, bool, error) {
	doc, err := parse(html)
	if err != nil {
		return "", false, err
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false, nil
	}
	return sel.Text(), true, nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repodoc.Errorf(repodoc.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
