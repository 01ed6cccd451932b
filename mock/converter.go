package mock

import "github.com/fwojciec/distill"

var _ distill.Converter = (*Converter)(nil)

// Converter is a mock implementation of distill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ distill.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of distill.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (*distill.CleanResult, error)
}

func (c *Cleaner) Clean(html string) (*distill.CleanResult, error) {
	return c.CleanFn(html)
}
