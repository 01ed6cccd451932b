package distill_test

import (
	"math"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
)

func TestBM25Scores(t *testing.T) {
	t.Parallel()

	t.Run("empty corpus yields no scores", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, distill.BM25Scores(nil, []string{"go"}))
	})

	t.Run("documents without query terms score zero", func(t *testing.T) {
		t.Parallel()

		corpus := [][]string{{"cats", "purr"}, {"go", "compiles"}}

		scores := distill.BM25Scores(corpus, []string{"go"})

		assert.Zero(t, scores[0])
		assert.Greater(t, scores[1], 0.0)
	})

	t.Run("matches the closed form for a single document hit", func(t *testing.T) {
		t.Parallel()

		corpus := [][]string{{"go", "fast"}, {"slow", "snail"}}

		scores := distill.BM25Scores(corpus, []string{"go"})

		// N = 2, df = 1, tf = 1, dl = avgdl = 2
		idf := math.Log((2-1+0.5)/(1+0.5) + 1)
		want := idf * (1 * 2.5) / (1 + 1.5)
		assert.InDelta(t, want, scores[0], 1e-9)
	})

	t.Run("shorter documents win for equal term frequency", func(t *testing.T) {
		t.Parallel()

		corpus := [][]string{
			{"go"},
			{"go", "and", "many", "other", "words"},
			{"unrelated"},
		}

		scores := distill.BM25Scores(corpus, []string{"go"})

		assert.Greater(t, scores[0], scores[1])
	})

	t.Run("empty documents do not divide by zero", func(t *testing.T) {
		t.Parallel()

		scores := distill.BM25Scores([][]string{{}, {}}, []string{"go"})

		assert.Equal(t, []float64{0, 0}, scores)
	})
}

func TestTagPriority(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 5.0, distill.TagPriority("h1"), 1e-9)
	assert.InDelta(t, 4.0, distill.TagPriority("title"), 1e-9)
	assert.InDelta(t, 1.5, distill.TagPriority("th"), 1e-9)
	assert.InDelta(t, 1.0, distill.TagPriority("div"), 1e-9)
}
