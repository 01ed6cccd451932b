package distill

import (
	"context"
	"time"
)

// ContentFilter reduces an HTML document to its relevant content.
// Implementations hold immutable configuration and are safe for
// concurrent use; each call parses and discards its own tree.
type ContentFilter interface {
	// Filter returns the reduced content. Density and relevance filters
	// return an HTML fragment, the LLM distiller returns markdown.
	// An empty result means nothing passed the filter.
	Filter(ctx context.Context, html string) (string, error)
}

// FilterKind names a content filter strategy.
type FilterKind string

// Filter strategies.
const (
	FilterPruning FilterKind = "pruning"
	FilterBM25    FilterKind = "bm25"
	FilterLLM     FilterKind = "llm"
)

// FilterConfig is the closed set of filter configurations: PruningConfig,
// BM25Config and LLMConfig. Values are immutable once constructed.
type FilterConfig interface {
	// Kind reports which strategy the configuration selects.
	Kind() FilterKind

	// Validate returns EINVALID when the configuration cannot be used.
	Validate() error

	isFilterConfig()
}

var (
	_ FilterConfig = PruningConfig{}
	_ FilterConfig = BM25Config{}
	_ FilterConfig = LLMConfig{}
)

// ThresholdType selects how the pruning threshold is interpreted.
type ThresholdType string

// Threshold types. ThresholdDynamic is reserved and currently behaves
// exactly like ThresholdFixed.
const (
	ThresholdFixed   ThresholdType = "fixed"
	ThresholdDynamic ThresholdType = "dynamic"
)

// PruningConfig configures the density-based pruning filter.
type PruningConfig struct {
	// Threshold is the minimum composite score an element needs to survive.
	Threshold float64

	ThresholdType ThresholdType

	// MinWordThreshold detaches elements with fewer words. Zero disables it.
	MinWordThreshold int

	// ExcludedTags are removed from the whole document before scoring.
	ExcludedTags []string

	// TagWeights maps a tag name to its structural weight. Unlisted tags
	// weigh DefaultTagWeight.
	TagWeights map[string]float64
}

// DefaultTagWeight is the weight of a tag missing from TagWeights.
const DefaultTagWeight = 0.5

// DefaultPruningConfig returns the pruning configuration used when none is given.
func DefaultPruningConfig() PruningConfig {
	return PruningConfig{
		Threshold:     0.48,
		ThresholdType: ThresholdFixed,
		ExcludedTags: []string{
			"nav", "footer", "header", "aside", "script",
			"style", "form", "iframe", "noscript",
		},
		TagWeights: map[string]float64{
			"div":     0.5,
			"p":       1.0,
			"article": 1.5,
			"section": 1.0,
			"span":    0.3,
			"li":      0.5,
			"ul":      0.5,
			"ol":      0.5,
			"h1":      1.2,
			"h2":      1.1,
			"h3":      1.0,
			"h4":      0.9,
			"h5":      0.8,
			"h6":      0.7,
		},
	}
}

func (PruningConfig) Kind() FilterKind { return FilterPruning }
func (PruningConfig) isFilterConfig()  {}

// Validate returns an error if the configuration contains invalid fields.
func (c PruningConfig) Validate() error {
	switch c.ThresholdType {
	case ThresholdFixed, ThresholdDynamic, "":
	default:
		return Errorf(EINVALID, "unknown threshold type %q", c.ThresholdType)
	}
	if c.MinWordThreshold < 0 {
		return Errorf(EINVALID, "min word threshold must not be negative")
	}
	return nil
}

// Weight returns the structural weight of tag.
func (c PruningConfig) Weight(tag string) float64 {
	if w, ok := c.TagWeights[tag]; ok {
		return w
	}
	return DefaultTagWeight
}

// LanguageEnglish is the only language the relevance filter supports.
const LanguageEnglish = "english"

// BM25Config configures the query-relevance filter.
type BM25Config struct {
	// UserQuery overrides the query derived from the page metadata.
	UserQuery string

	// Threshold is the minimum priority-adjusted BM25 score to keep a chunk.
	Threshold float64

	Language    string
	UseStemming bool

	// MinWordThreshold drops chunks with fewer words. Zero disables it.
	MinWordThreshold int
}

// DefaultBM25Config returns the relevance configuration used when none is given.
func DefaultBM25Config() BM25Config {
	return BM25Config{
		Threshold:   1.0,
		Language:    LanguageEnglish,
		UseStemming: true,
	}
}

func (BM25Config) Kind() FilterKind { return FilterBM25 }
func (BM25Config) isFilterConfig()  {}

// Validate returns an error if the configuration contains invalid fields.
func (c BM25Config) Validate() error {
	if c.Language != "" && c.Language != LanguageEnglish {
		return Errorf(EINVALID, "unsupported language %q", c.Language)
	}
	if c.MinWordThreshold < 0 {
		return Errorf(EINVALID, "min word threshold must not be negative")
	}
	return nil
}

// DefaultInstruction is the user instruction sent when none is configured.
const DefaultInstruction = "Convert this HTML into clean, relevant markdown, removing any noise or irrelevant content."

// DefaultProvider is the model used when none is configured.
const DefaultProvider = "openai/gpt-4o-mini"

// BackoffConfig controls retries of rate-limited or failed completions.
// The delay before attempt n+1 is BaseDelay * Factor^(n-1).
type BackoffConfig struct {
	BaseDelay   time.Duration
	MaxAttempts int
	Factor      float64
}

// Delay returns the wait after the given failed attempt (1-based).
func (b BackoffConfig) Delay(attempt int) time.Duration {
	d := float64(b.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= b.Factor
	}
	return time.Duration(d)
}

// LLMConfig configures the LLM distiller.
type LLMConfig struct {
	// Provider is the model identifier, optionally prefixed with a vendor
	// such as "openai/" or "gemini/".
	Provider string
	APIToken string

	// BaseURL overrides the vendor endpoint for compatible services.
	BaseURL string

	Instruction string

	ChunkTokenThreshold int
	OverlapRate         float64
	WordTokenRate       float64

	Backoff BackoffConfig
}

// DefaultLLMConfig returns the distiller configuration used when none is given.
// The API token is left empty.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:            DefaultProvider,
		Instruction:         DefaultInstruction,
		ChunkTokenThreshold: 4096,
		OverlapRate:         0.1,
		WordTokenRate:       0.75,
		Backoff: BackoffConfig{
			BaseDelay:   2 * time.Second,
			MaxAttempts: 3,
			Factor:      2.0,
		},
	}
}

func (LLMConfig) Kind() FilterKind { return FilterLLM }
func (LLMConfig) isFilterConfig()  {}

// Validate returns an error if the configuration contains invalid fields.
func (c LLMConfig) Validate() error {
	if c.Provider == "" {
		return Errorf(EINVALID, "llm provider required")
	}
	if c.ChunkTokenThreshold <= 0 {
		return Errorf(EINVALID, "chunk token threshold must be positive")
	}
	if c.WordTokenRate <= 0 {
		return Errorf(EINVALID, "word token rate must be positive")
	}
	if c.OverlapRate < 0 || c.OverlapRate >= 1 {
		return Errorf(EINVALID, "overlap rate must be in [0, 1)")
	}
	if c.Backoff.MaxAttempts < 1 {
		return Errorf(EINVALID, "backoff max attempts must be at least 1")
	}
	if c.Backoff.Factor < 1 {
		return Errorf(EINVALID, "backoff factor must be at least 1")
	}
	return nil
}
