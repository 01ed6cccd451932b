package snowball_test

import (
	"testing"

	"github.com/fwojciec/distill/snowball"
	"github.com/stretchr/testify/assert"
)

func TestTokenizer(t *testing.T) {
	t.Parallel()

	t.Run("lowercases and splits on punctuation", func(t *testing.T) {
		t.Parallel()

		tok := snowball.NewTokenizer(false)

		assert.Equal(t, []string{"hello", "world", "go", "1", "25"}, tok.Tokenize("Hello, WORLD! Go-1.25"))
	})

	t.Run("empty text yields no tokens", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, snowball.NewTokenizer(true).Tokenize(" ... "))
	})

	t.Run("stemming collapses inflections", func(t *testing.T) {
		t.Parallel()

		tok := snowball.NewTokenizer(true)

		assert.Equal(t, tok.Tokenize("run"), tok.Tokenize("running"))
		assert.Equal(t, []string{"run"}, tok.Tokenize("Running"))
	})

	t.Run("without stemming inflections stay distinct", func(t *testing.T) {
		t.Parallel()

		tok := snowball.NewTokenizer(false)

		assert.NotEqual(t, tok.Tokenize("run"), tok.Tokenize("running"))
	})

	t.Run("keeps non ascii letters", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"café", "naïve"}, snowball.NewTokenizer(false).Tokenize("Café/naïve"))
	})
}
