package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.ContentFilter = (*ContentFilter)(nil)

// ContentFilter is a mock implementation of distill.ContentFilter.
type ContentFilter struct {
	FilterFn func(ctx context.Context, html string) (string, error)
}

func (f *ContentFilter) Filter(ctx context.Context, html string) (string, error) {
	return f.FilterFn(ctx, html)
}

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(html string) []distill.Record
}

func (e *Extractor) Extract(html string) []distill.Record {
	return e.ExtractFn(html)
}

var _ distill.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of distill.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(text string) []string
}

func (t *Tokenizer) Tokenize(text string) []string {
	return t.TokenizeFn(text)
}
