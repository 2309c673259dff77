package model

import "time"

// Config holds the complete pipeline configuration.
// Populated from defaults, ~/.credlens/config.yaml, CREDLENS_* env vars, and
// CLI flags, in increasing priority.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
	Evidence   EvidenceConfig   `yaml:"evidence" mapstructure:"evidence"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Escalation EscalationConfig `yaml:"escalation" mapstructure:"escalation"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior for URL ingestion.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent      string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSec float64       `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	RespectRobots  bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// LLMConfig configures the tiered LLM collaborator.
type LLMConfig struct {
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	FlashModel     string        `yaml:"flash_model" mapstructure:"flash_model"` // cheap tier
	ProModel       string        `yaml:"pro_model" mapstructure:"pro_model"`     // expensive tier
	EmbeddingModel string        `yaml:"embedding_model" mapstructure:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens      int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// IndexConfig configures the claim vector index.
type IndexConfig struct {
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	Path      string `yaml:"path" mapstructure:"path"` // sqlite snapshot location
}

// EvidenceConfig configures evidence aggregation.
type EvidenceConfig struct {
	TopK              int           `yaml:"top_k" mapstructure:"top_k"`
	MinCitations      int           `yaml:"min_citations" mapstructure:"min_citations"`
	MinSimilarity     float64       `yaml:"min_similarity" mapstructure:"min_similarity"`
	SimilarK          int           `yaml:"similar_k" mapstructure:"similar_k"`
	SourceTimeout     time.Duration `yaml:"source_timeout" mapstructure:"source_timeout"`
	FactCheckAPIKey   string        `yaml:"fact_check_api_key" mapstructure:"fact_check_api_key"`
	FactCheckEndpoint string        `yaml:"fact_check_endpoint" mapstructure:"fact_check_endpoint"`
	GroundingFeeds    []string      `yaml:"grounding_feeds" mapstructure:"grounding_feeds"`
}

// ScoringConfig carries the tunable risk-scoring constants. The defaults are
// product policy, not derived values; see DefaultConfig.
type ScoringConfig struct {
	ClaimPenalty       int     `yaml:"claim_penalty" mapstructure:"claim_penalty"`
	ClaimPenaltyCap    int     `yaml:"claim_penalty_cap" mapstructure:"claim_penalty_cap"`
	RangeNoEvidence    float64 `yaml:"range_no_evidence" mapstructure:"range_no_evidence"`
	RangeSparse        float64 `yaml:"range_sparse" mapstructure:"range_sparse"`
	RangeDense         float64 `yaml:"range_dense" mapstructure:"range_dense"`
	DenseCitationCount int     `yaml:"dense_citation_count" mapstructure:"dense_citation_count"`
}

// EscalationConfig carries the model-tier escalation thresholds.
type EscalationConfig struct {
	ClaimThreshold        int     `yaml:"claim_threshold" mapstructure:"claim_threshold"`
	NeedsContextThreshold int     `yaml:"needs_context_threshold" mapstructure:"needs_context_threshold"`
	MinMeanConfidence     float64 `yaml:"min_mean_confidence" mapstructure:"min_mean_confidence"`
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// StorageConfig configures result persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// WatchConfig configures the feed-watch loop.
type WatchConfig struct {
	Schedule         string   `yaml:"schedule" mapstructure:"schedule"`                   // cron spec for feed polling
	SnapshotSchedule string   `yaml:"snapshot_schedule" mapstructure:"snapshot_schedule"` // cron spec for index snapshots
	Feeds            []string `yaml:"feeds" mapstructure:"feeds"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:        30 * time.Second,
			UserAgent:      "credlens/0.1 (+https://github.com/192005chandrakant/credlens)",
			MaxBodyBytes:   2_000_000,
			RequestsPerSec: 2,
			RespectRobots:  true,
		},
		LLM: LLMConfig{
			FlashModel:     "gpt-4o-mini",
			ProModel:       "gpt-4o",
			EmbeddingModel: "text-embedding-3-small",
			Timeout:        30 * time.Second,
			MaxTokens:      1200,
		},
		Index: IndexConfig{
			Dimension: 1536,
			Path:      "credlens-index.db",
		},
		Evidence: EvidenceConfig{
			TopK:              5,
			MinCitations:      2,
			MinSimilarity:     0.75,
			SimilarK:          3,
			SourceTimeout:     10 * time.Second,
			FactCheckEndpoint: "https://factchecktools.googleapis.com/v1alpha1/claims:search",
		},
		Scoring: ScoringConfig{
			ClaimPenalty:       5,
			ClaimPenaltyCap:    20,
			RangeNoEvidence:    0.3,
			RangeSparse:        0.2,
			RangeDense:         0.1,
			DenseCitationCount: 3,
		},
		Escalation: EscalationConfig{
			ClaimThreshold:        5,
			NeedsContextThreshold: 2,
			MinMeanConfidence:     0.6,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Storage: StorageConfig{
			Enabled: false,
			Path:    "credlens-results.db",
		},
		Watch: WatchConfig{
			Schedule:         "*/15 * * * *",
			SnapshotSchedule: "0 * * * *",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
