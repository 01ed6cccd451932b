package goquery

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

var _ distill.ContentFilter = (*RelevanceFilter)(nil)

// fallbackQueryLen bounds the paragraph used as a query when the page has
// no title, heading or meta description.
const fallbackQueryLen = 150

// RelevanceFilter keeps the text chunks of a page that score at least the
// configured BM25 threshold against a query.
type RelevanceFilter struct {
	cfg       distill.BM25Config
	tokenizer distill.Tokenizer
}

// NewRelevanceFilter creates a new RelevanceFilter. The tokenizer is applied
// to the query and to every chunk.
func NewRelevanceFilter(cfg distill.BM25Config, tokenizer distill.Tokenizer) (*RelevanceFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tokenizer == nil {
		return nil, distill.Errorf(distill.EINVALID, "tokenizer required")
	}
	return &RelevanceFilter{cfg: cfg, tokenizer: tokenizer}, nil
}

// Filter returns the relevant chunks rendered in document order, or an
// empty string when the query is empty or nothing reaches the threshold.
func (f *RelevanceFilter) Filter(_ context.Context, raw string) (string, error) {
	doc := Parse(raw)

	query := f.cfg.UserQuery
	if query == "" {
		query = PageQuery(doc)
	}
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	chunks := TextBlocks(Body(doc), f.cfg.MinWordThreshold)
	if len(chunks) == 0 {
		return "", nil
	}

	corpus := make([][]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = f.tokenizer.Tokenize(c.Text)
	}
	scores := distill.BM25Scores(corpus, f.tokenizer.Tokenize(query))

	var b strings.Builder
	for i, c := range chunks {
		if scores[i]*distill.TagPriority(tagName(c.Node)) >= f.cfg.Threshold {
			b.WriteString(RenderChunk(c))
		}
	}
	return b.String(), nil
}

// PageQuery derives a query from the page's title, first h1 and meta
// description and keywords. Pages without any of these fall back to the
// start of the first long paragraph.
func PageQuery(doc *goquery.Document) string {
	var parts []string
	if title := doc.Find("title").First(); title.Length() > 0 {
		parts = append(parts, title.Text())
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		parts = append(parts, h1.Text())
	}
	doc.Find("meta").Each(func(_ int, meta *goquery.Selection) {
		switch meta.AttrOr("name", "") {
		case "description", "keywords":
			if content, ok := meta.Attr("content"); ok {
				parts = append(parts, content)
			}
		}
	})
	if q := strings.TrimSpace(strings.Join(parts, " ")); q != "" {
		return q
	}

	var query string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) <= fallbackQueryLen {
			return true
		}
		query = string([]rune(text)[:fallbackQueryLen])
		return false
	})
	return query
}

func tagName(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}
