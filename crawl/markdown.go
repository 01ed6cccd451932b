package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/distill"
)

// MarkdownGenerator renders a page as markdown, with citations and,
// when a filter is set, a filtered "fit" rendition.
type MarkdownGenerator struct {
	Converter distill.Converter

	// Filter is optional. FilterKind tells whether its output is HTML to
	// be rendered or markdown already (LLM filters).
	Filter     distill.ContentFilter
	FilterKind distill.FilterKind
}

// Generate renders html. Links are resolved against baseURL when
// building the references block.
func (g *MarkdownGenerator) Generate(ctx context.Context, html, baseURL string) (*distill.MarkdownResult, error) {
	result := &distill.MarkdownResult{}
	if strings.TrimSpace(html) == "" {
		return result, nil
	}

	raw, err := g.Converter.Convert(html)
	if err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	result.RawMarkdown = raw
	result.MarkdownWithCitations, result.ReferencesMarkdown = distill.ConvertCitations(raw, baseURL)

	if g.Filter == nil {
		return result, nil
	}

	fit, err := g.Filter.Filter(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("filter content: %w", err)
	}
	if g.FilterKind == distill.FilterLLM {
		result.FitMarkdown = fit
		return result, nil
	}
	result.FitHTML = fit
	if strings.TrimSpace(fit) == "" {
		return result, nil
	}
	result.FitMarkdown, err = g.Converter.Convert(fit)
	if err != nil {
		return nil, fmt.Errorf("convert fit markdown: %w", err)
	}
	return result, nil
}
