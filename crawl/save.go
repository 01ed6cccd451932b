package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/distill"
)

// SaveStats summarizes a SaveResults call.
type SaveStats struct {
	Saved     int
	Unchanged int

	// Errors holds one error per write that failed.
	Errors []error
}

// SaveResults writes successful results to w. When store is non-nil every
// result, failed ones included, is also recorded there, and pages whose
// content hash matches their previously stored crawl are counted as
// unchanged.
func SaveResults(ctx context.Context, results []*distill.CrawlResult, w distill.ResultWriter, store distill.ResultStore) SaveStats {
	var stats SaveStats
	for _, result := range results {
		if store != nil {
			if unchanged(ctx, store, result) {
				stats.Unchanged++
			}
			if err := store.WriteResult(ctx, result); err != nil {
				stats.Errors = append(stats.Errors, fmt.Errorf("store %s: %w", result.URL, err))
			}
		}
		if !result.Success {
			continue
		}
		if err := w.WriteResult(ctx, result); err != nil {
			stats.Errors = append(stats.Errors, fmt.Errorf("write %s: %w", result.URL, err))
			continue
		}
		stats.Saved++
	}
	return stats
}

func unchanged(ctx context.Context, store distill.ResultStore, result *distill.CrawlResult) bool {
	if !result.Success {
		return false
	}
	prev, err := store.FindResult(ctx, result.URL)
	if err != nil {
		return false
	}
	return prev.Result.Success && prev.Result.ContentHash == result.ContentHash
}
