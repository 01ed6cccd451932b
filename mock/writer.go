package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of distill.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *distill.CrawlResult) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *distill.CrawlResult) error {
	return w.WriteResultFn(ctx, result)
}

var _ distill.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of distill.ResultStore.
type ResultStore struct {
	WriteResultFn  func(ctx context.Context, result *distill.CrawlResult) error
	FindResultFn   func(ctx context.Context, url string) (*distill.StoredResult, error)
	FindResultsFn  func(ctx context.Context, filter distill.ResultFilter) ([]*distill.StoredResult, error)
	DeleteResultFn func(ctx context.Context, url string) error
}

func (s *ResultStore) WriteResult(ctx context.Context, result *distill.CrawlResult) error {
	return s.WriteResultFn(ctx, result)
}

func (s *ResultStore) FindResult(ctx context.Context, url string) (*distill.StoredResult, error) {
	return s.FindResultFn(ctx, url)
}

func (s *ResultStore) FindResults(ctx context.Context, filter distill.ResultFilter) ([]*distill.StoredResult, error) {
	return s.FindResultsFn(ctx, filter)
}

func (s *ResultStore) DeleteResult(ctx context.Context, url string) error {
	return s.DeleteResultFn(ctx, url)
}
