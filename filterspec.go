package distill

// FilterSpec is the serialized form of a FilterConfig used by the HTTP
// API and config files. Fields left unset take the defaults of the
// selected kind; fields of other kinds are ignored. Secrets are never
// part of a spec.
type FilterSpec struct {
	Type FilterKind `json:"type" yaml:"type"`

	// Shared.
	Threshold        *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	MinWordThreshold *int     `json:"min_word_threshold,omitempty" yaml:"min_word_threshold,omitempty"`

	// Pruning.
	ThresholdType ThresholdType      `json:"threshold_type,omitempty" yaml:"threshold_type,omitempty"`
	ExcludedTags  []string           `json:"excluded_tags,omitempty" yaml:"excluded_tags,omitempty"`
	TagWeights    map[string]float64 `json:"tag_weights,omitempty" yaml:"tag_weights,omitempty"`

	// BM25.
	UserQuery   string `json:"user_query,omitempty" yaml:"user_query,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	UseStemming *bool  `json:"use_stemming,omitempty" yaml:"use_stemming,omitempty"`

	// LLM.
	Provider            string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	BaseURL             string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Instruction         string   `json:"instruction,omitempty" yaml:"instruction,omitempty"`
	ChunkTokenThreshold *int     `json:"chunk_token_threshold,omitempty" yaml:"chunk_token_threshold,omitempty"`
	OverlapRate         *float64 `json:"overlap_rate,omitempty" yaml:"overlap_rate,omitempty"`
	WordTokenRate       *float64 `json:"word_token_rate,omitempty" yaml:"word_token_rate,omitempty"`
}

// Config returns the validated configuration the spec describes. An
// empty type selects pruning.
func (s FilterSpec) Config() (FilterConfig, error) {
	var cfg FilterConfig
	switch s.Type {
	case FilterPruning, "":
		c := DefaultPruningConfig()
		setIf(&c.Threshold, s.Threshold)
		setIf(&c.MinWordThreshold, s.MinWordThreshold)
		if s.ThresholdType != "" {
			c.ThresholdType = s.ThresholdType
		}
		if s.ExcludedTags != nil {
			c.ExcludedTags = s.ExcludedTags
		}
		if s.TagWeights != nil {
			c.TagWeights = s.TagWeights
		}
		cfg = c
	case FilterBM25:
		c := DefaultBM25Config()
		setIf(&c.Threshold, s.Threshold)
		setIf(&c.MinWordThreshold, s.MinWordThreshold)
		setIf(&c.UseStemming, s.UseStemming)
		c.UserQuery = s.UserQuery
		if s.Language != "" {
			c.Language = s.Language
		}
		cfg = c
	case FilterLLM:
		c := DefaultLLMConfig()
		if s.Provider != "" {
			c.Provider = s.Provider
		}
		if s.Instruction != "" {
			c.Instruction = s.Instruction
		}
		c.BaseURL = s.BaseURL
		setIf(&c.ChunkTokenThreshold, s.ChunkTokenThreshold)
		setIf(&c.OverlapRate, s.OverlapRate)
		setIf(&c.WordTokenRate, s.WordTokenRate)
		cfg = c
	default:
		return nil, Errorf(EINVALID, "unknown filter type %q", s.Type)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
