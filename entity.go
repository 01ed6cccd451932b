package distill

import (
	"regexp"
	"unicode/utf8"
)

// Entity is one pattern match found in a page's text.
type Entity struct {
	URL   string `json:"url"`
	Label string `json:"label"`
	Value string `json:"value"`

	// Span is the [start, end) character offset of Value in the text.
	Span [2]int `json:"span"`
}

// EntityPattern is a labelled regular expression.
type EntityPattern struct {
	Label string
	re    *regexp.Regexp
}

// Entity labels of the built-in pattern table.
const (
	LabelEmail      = "email"
	LabelURL        = "url"
	LabelIPv4       = "ipv4"
	LabelIPv6       = "ipv6"
	LabelUUID       = "uuid"
	LabelCurrency   = "currency"
	LabelPercentage = "percentage"
	LabelNumber     = "number"
	LabelDateISO    = "date_iso"
	LabelDateUS     = "date_us"
	LabelTime24h    = "time_24h"
	LabelPhoneIntl  = "phone_intl"
	LabelPhoneUS    = "phone_us"
)

var builtinPatterns = []EntityPattern{
	{LabelEmail, regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)},
	{LabelURL, regexp.MustCompile(`https?://[^\s"'<>]+`)},
	{LabelIPv4, regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`)},
	{LabelIPv6, regexp.MustCompile(`(?i)\b(?:[0-9a-f]{1,4}:){7}[0-9a-f]{1,4}\b`)},
	{LabelUUID, regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)},
	{LabelCurrency, regexp.MustCompile(`(?:USD|EUR|GBP|\$|€|£)\s?\d+(?:[.,]\d{2})?`)},
	{LabelPercentage, regexp.MustCompile(`\d+(?:\.\d+)?%`)},
	{LabelNumber, regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d+)?\b`)},
	{LabelDateISO, regexp.MustCompile(`\b\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`)},
	{LabelDateUS, regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])/(?:0?[1-9]|[12]\d|3[01])/\d{2,4}\b`)},
	{LabelTime24h, regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d(?::[0-5]\d)?\b`)},
	{LabelPhoneIntl, regexp.MustCompile(`\+\d{1,3}[ .-]?\d{1,4}(?:[ .-]?\d{2,4}){2,4}`)},
	{LabelPhoneUS, regexp.MustCompile(`\(?\b\d{3}\)?[-. ]?\d{3}[-. ]\d{4}\b`)},
}

// EntityPatterns returns the built-in pattern table in scan order.
func EntityPatterns() []EntityPattern {
	return append([]EntityPattern(nil), builtinPatterns...)
}

// NewEntityPattern compiles a custom labelled pattern.
func NewEntityPattern(label, pattern string) (EntityPattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return EntityPattern{}, Errorf(EINVALID, "pattern %q: %v", label, err)
	}
	return EntityPattern{Label: label, re: re}, nil
}

// RegexExtractor scans text with every pattern of its table independently.
// Overlapping matches of different families are all reported.
type RegexExtractor struct {
	patterns []EntityPattern
}

// NewRegexExtractor returns an extractor over the built-in patterns whose
// label is in labels, or over all of them when labels is empty. Unknown
// labels are rejected.
func NewRegexExtractor(labels ...string) (*RegexExtractor, error) {
	if len(labels) == 0 {
		return &RegexExtractor{patterns: EntityPatterns()}, nil
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	var patterns []EntityPattern
	for _, p := range builtinPatterns {
		if want[p.Label] {
			patterns = append(patterns, p)
			delete(want, p.Label)
		}
	}
	for l := range want {
		return nil, Errorf(EINVALID, "unknown entity label %q", l)
	}
	return &RegexExtractor{patterns: patterns}, nil
}

// NewCustomRegexExtractor returns an extractor over the given patterns.
func NewCustomRegexExtractor(patterns ...EntityPattern) *RegexExtractor {
	return &RegexExtractor{patterns: patterns}
}

// Extract returns every match in text, grouped by pattern in table order
// and ordered by position within a pattern.
func (x *RegexExtractor) Extract(url, text string) []Entity {
	entities := []Entity{}
	for _, p := range x.patterns {
		if p.re == nil {
			continue
		}
		var runes, bytePos int
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			runes += utf8.RuneCountInString(text[bytePos:loc[0]])
			start := runes
			runes += utf8.RuneCountInString(text[loc[0]:loc[1]])
			bytePos = loc[1]
			entities = append(entities, Entity{
				URL:   url,
				Label: p.Label,
				Value: text[loc[0]:loc[1]],
				Span:  [2]int{start, runes},
			})
		}
	}
	return entities
}
