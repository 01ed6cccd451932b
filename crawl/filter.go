package crawl

import (
	"log/slog"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/llm"
	"github.com/fwojciec/distill/snowball"
)

// FilterDeps holds the collaborators some filter kinds need.
type FilterDeps struct {
	// Completer is required for LLM filters.
	Completer distill.Completer
	// Limiter optionally paces LLM completions per provider.
	Limiter distill.RateLimiter
	Logger  *slog.Logger
}

// NewContentFilter builds the filter described by cfg.
func NewContentFilter(cfg distill.FilterConfig, deps FilterDeps) (distill.ContentFilter, error) {
	switch c := cfg.(type) {
	case distill.PruningConfig:
		f, err := goquery.NewPruningFilter(c)
		if err != nil {
			return nil, err
		}
		return f, nil
	case distill.BM25Config:
		f, err := goquery.NewRelevanceFilter(c, snowball.NewTokenizer(c.UseStemming))
		if err != nil {
			return nil, err
		}
		return f, nil
	case distill.LLMConfig:
		if deps.Completer == nil {
			return nil, distill.Errorf(distill.EINVALID, "llm filter requires a completer")
		}
		var opts []llm.Option
		if deps.Logger != nil {
			opts = append(opts, llm.WithLogger(deps.Logger))
		}
		if deps.Limiter != nil {
			opts = append(opts, llm.WithRateLimiter(deps.Limiter))
		}
		d, err := llm.NewDistiller(deps.Completer, c, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case nil:
		return nil, distill.Errorf(distill.EINVALID, "filter config required")
	default:
		return nil, distill.Errorf(distill.EINVALID, "unsupported filter kind %q", cfg.Kind())
	}
}
