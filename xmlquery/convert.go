// Package xmlquery runs XPath 1.0 schema extraction over HTML. Documents
// are parsed with the HTML5 parser, rebuilt as strict XML with etree and
// queried with antchfx/xmlquery.
package xmlquery

import (
	"strings"
	"unicode"

	"github.com/antchfx/xmlquery"
	"github.com/beevik/etree"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// Parse parses raw HTML and returns the root of its XML view. The HTML5
// parser closes void and unclosed elements, so conversion never fails on
// real-world markup; the error is reserved for a rejected XML rendition.
func Parse(raw string) (*xmlquery.Node, error) {
	root, _, err := parse(raw)
	return root, err
}

// parse returns the XML view of raw together with the HTML element each
// XML element was built from.
func parse(raw string) (*xmlquery.Node, map[*xmlquery.Node]*html.Node, error) {
	src, err := html.Parse(strings.NewReader(strings.ToValidUTF8(raw, "�")))
	if err != nil {
		return nil, nil, err
	}
	root, err := xmlquery.Parse(strings.NewReader(ToXML(src)))
	if err != nil {
		return nil, nil, err
	}
	sources := map[*xmlquery.Node]*html.Node{}
	pairElements(root, src, sources)
	return root, sources, nil
}

// pairElements walks both trees in document order. ToXML keeps every
// element and their order, so the n-th element children correspond.
func pairElements(x *xmlquery.Node, h *html.Node, sources map[*xmlquery.Node]*html.Node) {
	xc := x.FirstChild
	for hc := h.FirstChild; hc != nil; hc = hc.NextSibling {
		if hc.Type != html.ElementNode {
			continue
		}
		for xc != nil && xc.Type != xmlquery.ElementNode {
			xc = xc.NextSibling
		}
		if xc == nil {
			return
		}
		sources[xc] = hc
		pairElements(xc, hc, sources)
		xc = xc.NextSibling
	}
}

// ToXML renders an HTML tree as well-formed XML. Element names, attributes
// and document order are kept. Comments, doctypes and namespace
// declarations are dropped, names are reduced to valid XML names and
// characters XML cannot carry are stripped.
func ToXML(root *html.Node) string {
	doc := etree.NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			appendElement(&doc.Element, c)
		}
	}
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

func appendElement(parent *etree.Element, n *html.Node) {
	el := parent.CreateElement(xmlName(n.Data))
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + "_" + a.Key
		}
		if key == "xmlns" || strings.HasPrefix(key, "xmlns:") {
			continue
		}
		if name := xmlName(key); name != "_" {
			el.CreateAttr(name, distill.StripNonXMLChars(a.Val))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			appendElement(el, c)
		case html.TextNode:
			if t := distill.StripNonXMLChars(c.Data); t != "" {
				el.CreateText(t)
			}
		}
	}
}

// xmlName maps an HTML name onto the XML Name production. Characters that
// are not name characters, colons included, become underscores.
func xmlName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
