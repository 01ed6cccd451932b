package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultWriter_WriteResult(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteResultFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *distill.CrawlResult
		w := &mock.ResultWriter{
			WriteResultFn: func(_ context.Context, r *distill.CrawlResult) error {
				calledWith = r
				return nil
			},
		}

		result := &distill.CrawlResult{URL: "https://example.com/doc", Success: true}

		err := w.WriteResult(context.Background(), result)

		require.NoError(t, err)
		assert.Same(t, result, calledWith)
	})

	t.Run("returns error from WriteResultFn", func(t *testing.T) {
		t.Parallel()

		w := &mock.ResultWriter{
			WriteResultFn: func(context.Context, *distill.CrawlResult) error {
				return distill.Errorf(distill.EINTERNAL, "disk full")
			},
		}

		err := w.WriteResult(context.Background(), &distill.CrawlResult{})

		assert.Equal(t, distill.EINTERNAL, distill.ErrorCode(err))
	})
}
