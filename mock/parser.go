package mock

import "github.com/fwojciec/repodoc"

var _ repodoc.MarkupParser = (*MarkupParser)(nil)

// MarkupParser is a mock implementation of repodoc.MarkupParser.
type MarkupParser struct {
	AnchorsFn func(html, class, baseURL string) ([]repodoc.Anchor, error)
	ExistsFn  func(html, selector string) (bool, error)
	TextFn    func(html, selector string) (string, bool, error)
}

func (p *MarkupParser) Anchors(html, class, baseURL string) ([]repodoc.Anchor, error) {
	return p.AnchorsFn(html, class, baseURL)
}

func (p *MarkupParser) Exists(html, selector string) (bool, error) {
	return p.ExistsFn(html, selector)
}

func (p *MarkupParser) Text(html, selector string) (string, bool, error) {
	return p.TextFn(html, selector)
}
