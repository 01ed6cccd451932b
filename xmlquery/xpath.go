package xmlquery

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

var (
	_ distill.SelectorEngine[*xmlquery.Node] = XPathEngine{}
	_ distill.Extractor                      = (*XPathExtractor)(nil)
)

// XPathEngine resolves schema selectors as XPath 1.0 expressions evaluated
// with the current node as context. Invalid expressions match nothing.
type XPathEngine struct {
	// sources maps XML elements to the HTML they were converted from, so
	// html fields render as HTML. Without an entry the node renders as XML.
	sources map[*xmlquery.Node]*html.Node
}

// Select returns the nodes selected by expr from n.
func (XPathEngine) Select(n *xmlquery.Node, expr string) (nodes []*xmlquery.Node) {
	defer func() {
		if recover() != nil {
			nodes = nil
		}
	}()
	nodes, err := xmlquery.QueryAll(n, expr)
	if err != nil {
		return nil
	}
	return nodes
}

func (XPathEngine) Text(n *xmlquery.Node) string {
	return n.InnerText()
}

func (XPathEngine) Attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

func (e XPathEngine) HTML(n *xmlquery.Node) string {
	if src, ok := e.sources[n]; ok {
		var b strings.Builder
		if err := html.Render(&b, src); err != nil {
			return ""
		}
		return b.String()
	}
	return n.OutputXMLWithOptions(xmlquery.WithOutputSelf(), xmlquery.WithPreserveSpace())
}

// XPathExtractor extracts schema records from HTML with XPath selectors.
type XPathExtractor struct {
	schema *distill.Schema
}

// NewXPathExtractor creates a new XPathExtractor. A nil schema extracts nothing.
func NewXPathExtractor(schema *distill.Schema) *XPathExtractor {
	return &XPathExtractor{schema: schema}
}

// Extract returns one record per node matching the schema's base expression.
func (x *XPathExtractor) Extract(raw string) []distill.Record {
	if x.schema == nil {
		return []distill.Record{}
	}
	root, sources, err := parse(raw)
	if err != nil {
		return []distill.Record{}
	}
	return distill.ExtractRecords[*xmlquery.Node](XPathEngine{sources: sources}, root, x.schema)
}
