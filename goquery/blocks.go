package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// ChunkType classifies a text chunk by the element it was flushed at.
type ChunkType int

const (
	ChunkContent ChunkType = iota
	ChunkHeader
)

func (t ChunkType) String() string {
	if t == ChunkHeader {
		return "header"
	}
	return "content"
}

// TextChunk is a run of text flushed at the close of a block element.
// Chunks live for a single filter invocation.
type TextChunk struct {
	Index int
	Text  string
	Type  ChunkType

	// Node is the element that closed the chunk.
	Node *html.Node
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "acronym": true, "b": true, "bdo": true,
	"big": true, "br": true, "button": true, "cite": true, "code": true,
	"dfn": true, "em": true, "i": true, "img": true, "input": true,
	"kbd": true, "label": true, "map": true, "object": true, "q": true,
	"samp": true, "script": true, "select": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true,
	"textarea": true, "time": true, "tt": true, "var": true,
}

var headerTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true,
}

// TextBlocks splits the subtree of root into chunks of text.
//
// Text accumulates as the tree is walked depth first and is flushed each
// time a block element closes, so text of inline elements folds into the
// nearest enclosing block. Text left over at the end becomes a final chunk
// attributed to root. Chunks with fewer than minWords words are dropped
// afterwards; zero keeps everything.
func TextBlocks(root *html.Node, minWords int) []TextChunk {
	var (
		chunks []TextChunk
		buf    []string
	)

	flush := func(n *html.Node, typ ChunkType) {
		text := strings.TrimSpace(strings.Join(buf, " "))
		if text == "" {
			return
		}
		chunks = append(chunks, TextChunk{Index: len(chunks), Text: text, Type: typ, Node: n})
		buf = buf[:0]
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				buf = append(buf, t)
			}
			return
		case html.CommentNode, html.DoctypeNode:
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type != html.ElementNode || inlineTags[n.Data] {
			return
		}
		if n.Data == "p" && len(buf) == 0 {
			return
		}
		typ := ChunkContent
		if headerTags[n.Data] {
			typ = ChunkHeader
		}
		flush(n, typ)
	}
	walk(root)
	flush(root, ChunkContent)

	if minWords <= 0 {
		return chunks
	}
	kept := chunks[:0]
	for _, c := range chunks {
		if len(strings.Fields(c.Text)) >= minWords {
			kept = append(kept, c)
		}
	}
	return kept
}

// RenderChunk serializes a chunk without repeating text owned by other
// chunks. The source element is rendered as is only when it holds no block
// elements and its own text is exactly the chunk text; otherwise a bare
// element with the same tag wraps the chunk text.
func RenderChunk(c TextChunk) string {
	n := c.Node
	if n.Type == html.ElementNode && !hasBlockDescendant(n) && fragmentText(n) == c.Text {
		return Render(n)
	}

	tag := "div"
	if n.Type == html.ElementNode {
		tag = n.Data
	}
	synth := &html.Node{Type: html.ElementNode, Data: tag}
	synth.AppendChild(&html.Node{Type: html.TextNode, Data: c.Text})
	return Render(synth)
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (!inlineTags[c.Data] || hasBlockDescendant(c)) {
			return true
		}
	}
	return false
}

// fragmentText joins the trimmed text nodes under n the way chunks do.
func fragmentText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
