package distill_test

import (
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPruningConfig(t *testing.T) {
	t.Parallel()

	cfg := distill.DefaultPruningConfig()

	assert.InDelta(t, 0.48, cfg.Threshold, 1e-9)
	assert.Equal(t, distill.ThresholdFixed, cfg.ThresholdType)
	assert.ElementsMatch(t, []string{"nav", "footer", "header", "aside", "script", "style", "form", "iframe", "noscript"}, cfg.ExcludedTags)
	assert.InDelta(t, 1.5, cfg.Weight("article"), 1e-9)
	assert.InDelta(t, 0.5, cfg.Weight("marquee"), 1e-9)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, distill.FilterPruning, cfg.Kind())
}

func TestPruningConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := distill.DefaultPruningConfig()
	cfg.ThresholdType = "adaptive"

	err := cfg.Validate()

	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))

	cfg.ThresholdType = distill.ThresholdDynamic
	assert.NoError(t, cfg.Validate())
}

func TestBM25Config_Validate(t *testing.T) {
	t.Parallel()

	cfg := distill.DefaultBM25Config()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.UseStemming)
	assert.InDelta(t, 1.0, cfg.Threshold, 1e-9)

	cfg.Language = "german"
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(cfg.Validate()))
}

func TestLLMConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*distill.LLMConfig)
	}{
		{"missing provider", func(c *distill.LLMConfig) { c.Provider = "" }},
		{"zero threshold", func(c *distill.LLMConfig) { c.ChunkTokenThreshold = 0 }},
		{"zero word rate", func(c *distill.LLMConfig) { c.WordTokenRate = 0 }},
		{"overlap of one", func(c *distill.LLMConfig) { c.OverlapRate = 1 }},
		{"no attempts", func(c *distill.LLMConfig) { c.Backoff.MaxAttempts = 0 }},
		{"shrinking factor", func(c *distill.LLMConfig) { c.Backoff.Factor = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := distill.DefaultLLMConfig()
			tt.modify(&cfg)

			assert.Equal(t, distill.EINVALID, distill.ErrorCode(cfg.Validate()))
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, distill.DefaultLLMConfig().Validate())
	})
}

func TestBackoffConfig_Delay(t *testing.T) {
	t.Parallel()

	b := distill.DefaultLLMConfig().Backoff

	assert.Equal(t, 2*time.Second, b.Delay(1))
	assert.Equal(t, 4*time.Second, b.Delay(2))
	assert.Equal(t, 8*time.Second, b.Delay(3))
}
