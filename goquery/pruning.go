package goquery

import (
	"context"
	"math"
	"strings"

	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

var _ distill.ContentFilter = (*PruningFilter)(nil)

// Score component weights. Their sum normalizes the composite score.
const (
	weightTextDensity = 0.4
	weightLinkDensity = 0.2
	weightTag         = 0.2
	weightTextLength  = 0.1
)

// PruningFilter removes low-value subtrees by scoring each element on text
// density, link density, tag weight and text length.
type PruningFilter struct {
	cfg      distill.PruningConfig
	excluded string
}

// NewPruningFilter creates a new PruningFilter.
func NewPruningFilter(cfg distill.PruningConfig) (*PruningFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PruningFilter{
		cfg:      cfg,
		excluded: strings.Join(cfg.ExcludedTags, ","),
	}, nil
}

// Filter returns the serialized children of the pruned body.
func (f *PruningFilter) Filter(_ context.Context, raw string) (string, error) {
	doc := Parse(raw)

	removeComments(doc.Nodes[0])
	if f.excluded != "" {
		doc.Find(f.excluded).Remove()
	}

	body := Body(doc)
	f.prune(body)
	return RenderChildren(body), nil
}

// Score returns the composite score of element n.
func (f *PruningFilter) Score(n *html.Node) float64 {
	text := strings.TrimSpace(TextContent(n))
	return f.score(n.Data, len(text), len(Render(n)), linkTextLen(n))
}

func (f *PruningFilter) prune(n *html.Node) {
	for _, c := range children(n) {
		switch c.Type {
		case html.ElementNode:
			text := strings.TrimSpace(TextContent(c))
			if f.cfg.MinWordThreshold > 0 && len(strings.Fields(text)) < f.cfg.MinWordThreshold {
				detach(c)
				continue
			}
			if f.score(c.Data, len(text), len(Render(c)), linkTextLen(c)) < f.cfg.Threshold {
				detach(c)
				continue
			}
			f.prune(c)
		case html.TextNode:
		default:
			f.prune(c)
		}
	}
}

func (f *PruningFilter) score(tag string, textLen, tagLen, linkLen int) float64 {
	var density, linkDensity float64
	if tagLen > 0 {
		density = float64(textLen) / float64(tagLen)
	}
	if textLen > 0 {
		linkDensity = 1 - float64(linkLen)/float64(textLen)
	}
	lengthScore := math.Log(float64(textLen) + 1)

	score := weightTextDensity*density +
		weightLinkDensity*linkDensity +
		weightTag*f.cfg.Weight(tag) +
		weightTextLength*lengthScore
	return score / (weightTextDensity + weightLinkDensity + weightTag + weightTextLength)
}

// linkTextLen sums the trimmed text length of every <a> in the subtree
// of n, n included.
func linkTextLen(n *html.Node) int {
	var total int
	if n.Type == html.ElementNode && n.Data == "a" {
		total += len(strings.TrimSpace(TextContent(n)))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += linkTextLen(c)
	}
	return total
}

func removeComments(n *html.Node) {
	for _, c := range children(n) {
		if c.Type == html.CommentNode {
			detach(c)
			continue
		}
		removeComments(c)
	}
}
