package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byLabel(entities []distill.Entity, label string) []distill.Entity {
	var out []distill.Entity
	for _, e := range entities {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

func TestRegexExtractor(t *testing.T) {
	t.Parallel()

	t.Run("finds a single email with its span", func(t *testing.T) {
		t.Parallel()

		x, err := distill.NewRegexExtractor()
		require.NoError(t, err)

		entities := x.Extract("https://example.com/contact", "Contact support@example.com")

		emails := byLabel(entities, distill.LabelEmail)
		require.Len(t, emails, 1)
		assert.Equal(t, distill.Entity{
			URL:   "https://example.com/contact",
			Label: "email",
			Value: "support@example.com",
			Span:  [2]int{8, 27},
		}, emails[0])
	})

	t.Run("spans count characters not bytes", func(t *testing.T) {
		t.Parallel()

		x, err := distill.NewRegexExtractor(distill.LabelEmail)
		require.NoError(t, err)

		entities := x.Extract("", "Écrivez à support@example.com et à ops@example.org")

		require.Len(t, entities, 2)
		assert.Equal(t, [2]int{10, 29}, entities[0].Span)
		assert.Equal(t, [2]int{35, 50}, entities[1].Span)
	})

	t.Run("overlapping families are not deduplicated", func(t *testing.T) {
		t.Parallel()

		x, err := distill.NewRegexExtractor(distill.LabelPercentage, distill.LabelNumber)
		require.NoError(t, err)

		entities := x.Extract("", "Growth was 12.5% this year")

		assert.Len(t, byLabel(entities, distill.LabelPercentage), 1)
		assert.NotEmpty(t, byLabel(entities, distill.LabelNumber))
		assert.Equal(t, distill.LabelPercentage, entities[0].Label)
	})

	t.Run("recognizes each family", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			label string
			text  string
			want  string
		}{
			{distill.LabelURL, "see https://go.dev/doc for more", "https://go.dev/doc"},
			{distill.LabelIPv4, "host 192.168.1.20 is up", "192.168.1.20"},
			{distill.LabelIPv6, "addr 2001:0db8:85a3:0000:0000:8a2e:0370:7334 ok", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
			{distill.LabelUUID, "id 123e4567-e89b-12d3-a456-426614174000 end", "123e4567-e89b-12d3-a456-426614174000"},
			{distill.LabelCurrency, "costs $19.99 today", "$19.99"},
			{distill.LabelDateISO, "released 2024-03-15.", "2024-03-15"},
			{distill.LabelDateUS, "due 3/15/2024 sharp", "3/15/2024"},
			{distill.LabelTime24h, "opens at 18:30 daily", "18:30"},
			{distill.LabelPhoneIntl, "call +44 20 7946 0958 now", "+44 20 7946 0958"},
			{distill.LabelPhoneUS, "call (555) 123-4567 now", "(555) 123-4567"},
		}
		for _, tt := range tests {
			x, err := distill.NewRegexExtractor(tt.label)
			require.NoError(t, err)

			entities := x.Extract("", tt.text)

			require.NotEmpty(t, entities, tt.label)
			assert.Equal(t, tt.want, entities[0].Value, tt.label)
		}
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		t.Parallel()

		_, err := distill.NewRegexExtractor("ssn")

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("custom patterns", func(t *testing.T) {
		t.Parallel()

		p, err := distill.NewEntityPattern("ticket", `JIRA-\d+`)
		require.NoError(t, err)

		entities := distill.NewCustomRegexExtractor(p).Extract("", "fixed in JIRA-42")

		require.Len(t, entities, 1)
		assert.Equal(t, "ticket", entities[0].Label)
		assert.Equal(t, [2]int{9, 16}, entities[0].Span)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		t.Parallel()

		x, err := distill.NewRegexExtractor()
		require.NoError(t, err)

		assert.Empty(t, x.Extract("", "nothing to see"))
	})
}
