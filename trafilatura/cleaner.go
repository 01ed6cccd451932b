// Package trafilatura keeps the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ distill.Cleaner = (*Cleaner)(nil)

// Cleaner strips boilerplate with trafilatura, falling back to its
// readability and dom-distiller heuristics when the main pass finds little.
type Cleaner struct {
	opts trafilatura.Options
}

// NewCleaner creates a new Cleaner. Links and images are kept so that
// markdown citations and media survive cleaning.
func NewCleaner() *Cleaner {
	return &Cleaner{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   true,
		IncludeLinks:    true,
	}}
}

// Clean returns the main content of rawHTML.
func (c *Cleaner) Clean(rawHTML string) (*distill.CleanResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), c.opts)
	if err != nil {
		return nil, distill.Errorf(distill.ENOTFOUND, "no main content: %v", err)
	}

	clean := &distill.CleanResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, distill.Errorf(distill.EINTERNAL, "render content: %v", err)
		}
		clean.ContentHTML = buf.String()
	}
	return clean, nil
}
