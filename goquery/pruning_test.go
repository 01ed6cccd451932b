package goquery_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPruningFilter(t *testing.T, modify func(*distill.PruningConfig)) *goquery.PruningFilter {
	t.Helper()
	cfg := distill.DefaultPruningConfig()
	if modify != nil {
		modify(&cfg)
	}
	f, err := goquery.NewPruningFilter(cfg)
	require.NoError(t, err)
	return f
}

func TestPruningFilter(t *testing.T) {
	t.Parallel()

	t.Run("always removes excluded tags", func(t *testing.T) {
		t.Parallel()

		f := newPruningFilter(t, func(c *distill.PruningConfig) { c.Threshold = 0 })
		html := `<html><body>
<nav>Home About Contact with plenty of words in it</nav>
<article><p>Article text stays.</p><script>var x = 1;</script></article>
<footer>Copyright</footer>
</body></html>`

		out, err := f.Filter(context.Background(), html)

		require.NoError(t, err)
		assert.NotContains(t, out, "<nav")
		assert.NotContains(t, out, "<footer")
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "<p>Article text stays.</p>")
	})

	t.Run("removes comments", func(t *testing.T) {
		t.Parallel()

		f := newPruningFilter(t, func(c *distill.PruningConfig) { c.Threshold = 0 })

		out, err := f.Filter(context.Background(), `<p>Visible<!-- secret --></p>`)

		require.NoError(t, err)
		assert.Equal(t, "<p>Visible</p>", out)
	})

	t.Run("keeps an element scoring exactly the threshold", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Hello world</p></body></html>`
		p := goquery.Parse(html).Find("p").Nodes[0]
		score := newPruningFilter(t, nil).Score(p)

		atThreshold := newPruningFilter(t, func(c *distill.PruningConfig) { c.Threshold = score })
		out, err := atThreshold.Filter(context.Background(), html)
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello world</p>", out)

		above := newPruningFilter(t, func(c *distill.PruningConfig) { c.Threshold = math.Nextafter(score, math.Inf(1)) })
		out, err = above.Filter(context.Background(), html)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("prunes link-heavy boilerplate and keeps dense text", func(t *testing.T) {
		t.Parallel()

		f := newPruningFilter(t, nil)
		prose := strings.Repeat("Distillation keeps the words that matter to a reader. ", 8)
		html := `<html><body>
<div class="links"><a href="/a">A</a> <a href="/b">B</a> <a href="/c">C</a></div>
<article><p>` + prose + `</p></article>
</body></html>`

		out, err := f.Filter(context.Background(), html)

		require.NoError(t, err)
		assert.Contains(t, out, "Distillation keeps the words")
		assert.NotContains(t, out, `href="/a"`)
	})

	t.Run("drops elements below the word threshold without scoring", func(t *testing.T) {
		t.Parallel()

		f := newPruningFilter(t, func(c *distill.PruningConfig) {
			c.Threshold = 0
			c.MinWordThreshold = 3
		})

		out, err := f.Filter(context.Background(), `<p>one two</p><p>one two three</p>`)

		require.NoError(t, err)
		assert.Equal(t, "<p>one two three</p>", out)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()

		out, err := newPruningFilter(t, nil).Filter(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		f := newPruningFilter(t, func(c *distill.PruningConfig) { c.Threshold = 0 })

		out, err := f.Filter(context.Background(), "<div><p>unclosed <b>bold<img src=x></div></span>\xff")

		require.NoError(t, err)
		assert.Contains(t, out, "unclosed")
	})

	t.Run("rejects unknown threshold types", func(t *testing.T) {
		t.Parallel()

		cfg := distill.DefaultPruningConfig()
		cfg.ThresholdType = "magic"

		_, err := goquery.NewPruningFilter(cfg)

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
