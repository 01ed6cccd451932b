// Package readability keeps the main content of a page with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

var _ distill.Cleaner = (*Cleaner)(nil)

// Cleaner strips boilerplate using Mozilla's readability heuristics.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the main content of rawHTML.
func (c *Cleaner) Clean(rawHTML string) (*distill.CleanResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, distill.Errorf(distill.ENOTFOUND, "no readable content: %v", err)
	}

	return &distill.CleanResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
