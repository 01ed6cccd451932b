package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
)

func TestConvertCitations(t *testing.T) {
	t.Parallel()

	t.Run("numbers links and lists references", func(t *testing.T) {
		t.Parallel()

		md := "Read [the docs](https://go.dev/doc \"Docs\") and [the blog](https://go.dev/blog)."

		body, refs := distill.ConvertCitations(md, "")

		assert.Equal(t, "Read the docs⟨1⟩ and the blog⟨2⟩.", body)
		assert.Equal(t, "\n\n## References\n\n⟨1⟩ https://go.dev/doc: Docs\n⟨2⟩ https://go.dev/blog\n", refs)
	})

	t.Run("repeated urls share a number", func(t *testing.T) {
		t.Parallel()

		body, refs := distill.ConvertCitations("[a](https://x.io) [b](https://x.io)", "")

		assert.Equal(t, "a⟨1⟩ b⟨1⟩", body)
		assert.Equal(t, "\n\n## References\n\n⟨1⟩ https://x.io\n", refs)
	})

	t.Run("resolves relative urls against the page", func(t *testing.T) {
		t.Parallel()

		_, refs := distill.ConvertCitations("[next](/page/2)", "https://example.com/page/1")

		assert.Contains(t, refs, "⟨1⟩ https://example.com/page/2")
	})

	t.Run("leaves images and plain text alone", func(t *testing.T) {
		t.Parallel()

		md := "![logo](/logo.png) plain text"

		body, refs := distill.ConvertCitations(md, "https://example.com")

		assert.Equal(t, md, body)
		assert.Empty(t, refs)
	})
}
