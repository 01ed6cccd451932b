package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// ExtractMedia returns the images of a page with their sources resolved
// against baseURL. Images without a usable src are skipped.
func ExtractMedia(doc *goquery.Document, baseURL string) distill.Media {
	base, _ := url.Parse(baseURL)
	media := distill.Media{Images: []distill.MediaItem{}}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
			return
		}
		if base != nil {
			ref, err := url.Parse(src)
			if err != nil {
				return
			}
			src = base.ResolveReference(ref).String()
		}
		media.Images = append(media.Images, distill.MediaItem{
			Src:  src,
			Alt:  strings.TrimSpace(img.AttrOr("alt", "")),
			Desc: strings.TrimSpace(img.AttrOr("title", "")),
			Type: "image",
		})
	})
	return media
}

// ExtractLinks returns the anchors of a page, resolved against baseURL and
// split by host. Links are deduplicated by URL keeping the first
// occurrence; fragments, self-references and non-HTTP schemes are dropped.
func ExtractLinks(doc *goquery.Document, baseURL string) (distill.Links, error) {
	links := distill.Links{Internal: []distill.Link{}, External: []distill.Link{}}

	base, err := url.Parse(baseURL)
	if err != nil {
		return links, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		link := distill.Link{
			Href:  resolved,
			Text:  strings.Join(strings.Fields(sel.Text()), " "),
			Title: sel.AttrOr("title", ""),
		}
		if isSameHost(base, resolved) {
			links.Internal = append(links.Internal, link)
		} else {
			links.External = append(links.External, link)
		}
	})
	return links, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost uses exact host matching; subdomains are different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

var invisibleTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// VisibleText returns the human-readable text of a page, one line per
// block with whitespace collapsed.
func VisibleText(raw string) string {
	doc := Parse(raw)

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if invisibleTags[n.Data] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && !inlineTags[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc.Nodes[0])

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
