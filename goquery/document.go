// Package goquery implements the HTML side of distillation on top of
// goquery and golang.org/x/net/html: text block chunking, density pruning,
// BM25 relevance filtering, CSS schema extraction and link resolution.
//
// Trees are x/net/html nodes. A node has a single parent slot and
// AppendChild panics on a node that is already attached, so detaching with
// RemoveChild can never create a cycle or a shared subtree.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses raw HTML into a document. Invalid UTF-8 is replaced rather
// than rejected, and the HTML5 parser recovers from any malformed markup.
func Parse(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ToValidUTF8(raw, "�")))
	if err != nil {
		// Only a failing reader errors; strings.Reader never does.
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// Body returns the document's <body>, or the document root when it has none.
func Body(doc *goquery.Document) *html.Node {
	if body := doc.Find("body").First(); len(body.Nodes) > 0 {
		return body.Nodes[0]
	}
	return doc.Nodes[0]
}

// Render serializes n and its subtree.
func Render(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// RenderChildren serializes the children of n in order.
func RenderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// TextContent concatenates every text node in the subtree of n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// detach removes n from its parent. Detached nodes are unreachable from
// the document and are dropped with it.
func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// children snapshots the children of n so callers may detach while iterating.
func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
