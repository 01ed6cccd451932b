package distill

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var markdownLinkRE = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)

// ConvertCitations rewrites inline markdown links as numbered citations.
// "[Go](https://go.dev)" becomes "Go⟨1⟩" and the returned references list
// "⟨1⟩ https://go.dev". Repeated URLs share a number. Relative URLs are
// resolved against baseURL when it parses. Images are left untouched.
func ConvertCitations(markdown, baseURL string) (withCitations, references string) {
	base, _ := url.Parse(baseURL)

	numbers := map[string]int{}
	var refs strings.Builder

	withCitations = markdownLinkRE.ReplaceAllStringFunc(markdown, func(m string) string {
		parts := markdownLinkRE.FindStringSubmatch(m)
		if parts[1] == "!" {
			return m
		}
		text, href, title := parts[2], parts[3], parts[4]
		if base != nil && base.IsAbs() {
			if u, err := base.Parse(href); err == nil {
				href = u.String()
			}
		}
		n, ok := numbers[href]
		if !ok {
			n = len(numbers) + 1
			numbers[href] = n
			if title != "" {
				fmt.Fprintf(&refs, "⟨%d⟩ %s: %s\n", n, href, title)
			} else {
				fmt.Fprintf(&refs, "⟨%d⟩ %s\n", n, href)
			}
		}
		return fmt.Sprintf("%s⟨%d⟩", text, n)
	})

	if refs.Len() == 0 {
		return withCitations, ""
	}
	return withCitations, "\n\n## References\n\n" + refs.String()
}
