package model

import "time"

// Config is the full runtime configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, NEWSCURATOR_* environment
// variables, config file (~/.newscurator/config.yaml), defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Ingest      IngestConfig      `yaml:"ingest" mapstructure:"ingest"`
	Evidence    EvidenceConfig    `yaml:"evidence" mapstructure:"evidence"`
	Narrative   NarrativeConfig   `yaml:"narrative" mapstructure:"narrative"`
	Perspective PerspectiveConfig `yaml:"perspective" mapstructure:"perspective"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Targets     TargetConfig      `yaml:"targets" mapstructure:"targets"`
}

// HTTPConfig controls outbound article fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RatePerHost  float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"` // Requests/sec per host
	RateBurst    int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// IngestConfig is the eligibility floor applied at ingestion.
type IngestConfig struct {
	MinBodyLength  int     `yaml:"min_body_length" mapstructure:"min_body_length"`
	MinCredibility float64 `yaml:"min_credibility" mapstructure:"min_credibility"`
}

// EvidenceConfig tunes evidence clustering and summary generation.
type EvidenceConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	MaxClusterSize      int     `yaml:"max_cluster_size" mapstructure:"max_cluster_size"`
	CitationConfidence  float64 `yaml:"citation_confidence" mapstructure:"citation_confidence"`
	MaxSummaryLength    int     `yaml:"max_summary_length" mapstructure:"max_summary_length"`
}

// NarrativeConfig tunes story clustering.
type NarrativeConfig struct {
	StoryThreshold  float64       `yaml:"story_threshold" mapstructure:"story_threshold"`
	MaxStorySize    int           `yaml:"max_story_size" mapstructure:"max_story_size"`
	TemporalWindow  time.Duration `yaml:"temporal_window" mapstructure:"temporal_window"`
	MinCoherence    float64       `yaml:"min_coherence" mapstructure:"min_coherence"`
	RecencyHalfLife time.Duration `yaml:"recency_half_life" mapstructure:"recency_half_life"`
}

// PerspectiveConfig tunes viewpoint grouping and comparison.
type PerspectiveConfig struct {
	MaxSharedFacts    int `yaml:"max_shared_facts" mapstructure:"max_shared_facts"`
	MaxKeyDifferences int `yaml:"max_key_differences" mapstructure:"max_key_differences"`
	MaxDisputedClaims int `yaml:"max_disputed_claims" mapstructure:"max_disputed_claims"`
}

// PipelineConfig bounds one pipeline invocation.
type PipelineConfig struct {
	SoftTimeout    time.Duration `yaml:"soft_timeout" mapstructure:"soft_timeout"`
	ExternalCall   time.Duration `yaml:"external_call_timeout" mapstructure:"external_call_timeout"`
	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"` // Rate-limit retries only
	DiversityBoost float64       `yaml:"diversity_boost" mapstructure:"diversity_boost"`
}

// ConcurrencyConfig caps the fan-out inside concurrent stages.
type ConcurrencyConfig struct {
	StageWorkers int `yaml:"stage_workers" mapstructure:"stage_workers"`
	FetchWorkers int `yaml:"fetch_workers" mapstructure:"fetch_workers"`
}

// CacheConfig controls the fetch cache layers.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL  time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir    string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL    time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	AdvisorTTL time.Duration `yaml:"advisor_ttl" mapstructure:"advisor_ttl"`
}

// LLMConfig configures the optional text-generation collaborator.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// TargetConfig holds quality targets compared against aggregated metrics.
// Misses become systemRecommendation warnings, never request failures.
type TargetConfig struct {
	TotalTime       time.Duration `yaml:"total_time" mapstructure:"total_time"`
	MeanCredibility float64       `yaml:"mean_credibility" mapstructure:"mean_credibility"`
	MeanRelevance   float64       `yaml:"mean_relevance" mapstructure:"mean_relevance"`
}

// DefaultConfig returns the complete default configuration. Every field is
// filled here; nothing is patched in after construction.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "NewsCurator/0.1 (+https://github.com/kakashi3lite/newscurator)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  2.0,
			RateBurst:    5,
		},
		Ingest: IngestConfig{
			MinBodyLength:  100,
			MinCredibility: 0.1,
		},
		Evidence: EvidenceConfig{
			SimilarityThreshold: 0.6,
			MaxClusterSize:      5,
			CitationConfidence:  0.8,
			MaxSummaryLength:    500,
		},
		Narrative: NarrativeConfig{
			StoryThreshold:  0.7,
			MaxStorySize:    8,
			TemporalWindow:  7 * 24 * time.Hour,
			MinCoherence:    0.6,
			RecencyHalfLife: 48 * time.Hour,
		},
		Perspective: PerspectiveConfig{
			MaxSharedFacts:    3,
			MaxKeyDifferences: 4,
			MaxDisputedClaims: 2,
		},
		Pipeline: PipelineConfig{
			SoftTimeout:    30 * time.Second,
			ExternalCall:   20 * time.Second,
			MaxRetries:     3,
			DiversityBoost: 0.1,
		},
		Concurrency: ConcurrencyConfig{
			StageWorkers: 16,
			FetchWorkers: 8,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MemoryTTL:  15 * time.Minute,
			DiskDir:    "",
			DiskTTL:    24 * time.Hour,
			AdvisorTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Targets: TargetConfig{
			TotalTime:       2000 * time.Millisecond,
			MeanCredibility: 0.95,
			MeanRelevance:   0.85,
		},
	}
}
