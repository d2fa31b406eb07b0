package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Summary     SummaryConfig     `yaml:"summary" mapstructure:"summary"`
	Quota       QuotaConfig       `yaml:"quota" mapstructure:"quota"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Similarity  SimilarityConfig  `yaml:"similarity" mapstructure:"similarity"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// InputConfig bounds the text accepted by the normalizer and segmenter
type InputConfig struct {
	MaxChars         int `yaml:"max_chars" mapstructure:"max_chars"`                 // Normalizer truncation budget
	MinChars         int `yaml:"min_chars" mapstructure:"min_chars"`                 // Below this, invalid_input
	SegmentThreshold int `yaml:"segment_threshold" mapstructure:"segment_threshold"` // Above this, split into segments
	MaxSegmentChars  int `yaml:"max_segment_chars" mapstructure:"max_segment_chars"` // Chunk packing limit
}

// SearchConfig configures the source-retrieval collaborator
type SearchConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	MaxResults     int           `yaml:"max_results" mapstructure:"max_results"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst          int           `yaml:"burst" mapstructure:"burst"`
	HighTierHosts  []string      `yaml:"high_tier_hosts" mapstructure:"high_tier_hosts"`
	LowTierHosts   []string      `yaml:"low_tier_hosts" mapstructure:"low_tier_hosts"`
}

// LLMConfig configures the text-generation collaborator
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScoringConfig holds the dimension weights as a tunable policy table
type ScoringConfig struct {
	FactWeight      float64 `yaml:"fact_weight" mapstructure:"fact_weight"`
	SourceWeight    float64 `yaml:"source_weight" mapstructure:"source_weight"`
	ContextWeight   float64 `yaml:"context_weight" mapstructure:"context_weight"`
	FreshnessWeight float64 `yaml:"freshness_weight" mapstructure:"freshness_weight"`
}

// SummaryConfig configures the meta-summary generator
type SummaryConfig struct {
	Locale   string `yaml:"locale" mapstructure:"locale"`
	MaxChars int    `yaml:"max_chars" mapstructure:"max_chars"`
}

// QuotaConfig configures the quota store
type QuotaConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // Postgres; empty selects the in-memory store
}

// CacheConfig configures the best-effort caches
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	SearchTTL   time.Duration `yaml:"search_ttl" mapstructure:"search_ttl"`
	ResponseTTL time.Duration `yaml:"response_ttl" mapstructure:"response_ttl"`
}

// SimilarityConfig selects the text-similarity strategy
type SimilarityConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"` // "cosine" (default) or "jaccard"
}

// ConcurrencyConfig bounds internal fan-out
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// ServerConfig configures the HTTP boundary
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			MaxChars:         10000,
			MinChars:         10,
			SegmentThreshold: 8000,
			MaxSegmentChars:  6000,
		},
		Search: SearchConfig{
			MaxResults:    10,
			Timeout:       15 * time.Second,
			RatePerSecond: 2,
			Burst:         5,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Scoring: ScoringConfig{
			FactWeight:      0.4,
			SourceWeight:    0.3,
			ContextWeight:   0.2,
			FreshnessWeight: 0.1,
		},
		Summary: SummaryConfig{
			Locale:   "en",
			MaxChars: 1200,
		},
		Cache: CacheConfig{
			Enabled:     true,
			SearchTTL:   time.Hour,
			ResponseTTL: 15 * time.Minute,
		},
		Similarity: SimilarityConfig{
			Strategy: "cosine",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
