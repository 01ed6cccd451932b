// Package snowball tokenizes text for relevance scoring, optionally
// reducing words to their Snowball English stems.
package snowball

import (
	"strings"
	"unicode"

	"github.com/fwojciec/distill"
	"github.com/kljensen/snowball/english"
)

var _ distill.Tokenizer = (*Tokenizer)(nil)

// Tokenizer lowercases text, splits it on every rune that is not a letter
// or digit and, when stemming is enabled, stems each token.
type Tokenizer struct {
	stem bool
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer(stem bool) *Tokenizer {
	return &Tokenizer{stem: stem}
}

// Tokenize returns the tokens of text in order. Empty tokens are dropped.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if !t.stem {
		return tokens
	}
	for i, tok := range tokens {
		if s := english.Stem(tok, true); s != "" {
			tokens[i] = s
		}
	}
	return tokens
}
