package mock

import "github.com/fwojciec/repodoc"

var _ repodoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of repodoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
