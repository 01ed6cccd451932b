package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

var (
	_ distill.SelectorEngine[*goquery.Selection] = CSSEngine{}
	_ distill.Extractor                          = (*CSSExtractor)(nil)
)

// CSSEngine resolves schema selectors as CSS selectors. Each node handle is
// a single-node Selection. Invalid selectors match nothing.
type CSSEngine struct{}

// Select returns the descendants of sel matching selector in document order.
func (CSSEngine) Select(sel *goquery.Selection, selector string) []*goquery.Selection {
	matches := sel.Find(selector)
	out := make([]*goquery.Selection, 0, matches.Length())
	for i := range matches.Nodes {
		out = append(out, matches.Eq(i))
	}
	return out
}

func (CSSEngine) Text(sel *goquery.Selection) string {
	return distill.StripNonXMLChars(sel.Text())
}

func (CSSEngine) Attr(sel *goquery.Selection, name string) (string, bool) {
	v, ok := sel.Attr(name)
	return distill.StripNonXMLChars(v), ok
}

func (CSSEngine) HTML(sel *goquery.Selection) string {
	h, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return h
}

// CSSExtractor extracts schema records from HTML with CSS selectors.
type CSSExtractor struct {
	schema *distill.Schema
}

// NewCSSExtractor creates a new CSSExtractor. A nil schema extracts nothing.
func NewCSSExtractor(schema *distill.Schema) *CSSExtractor {
	return &CSSExtractor{schema: schema}
}

// Extract returns one record per element matching the schema's base selector.
func (x *CSSExtractor) Extract(raw string) []distill.Record {
	if x.schema == nil {
		return []distill.Record{}
	}
	doc := Parse(raw)
	return distill.ExtractRecords[*goquery.Selection](CSSEngine{}, doc.Selection, x.schema)
}
