package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "miri/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LawSearchConfig holds settings for the national law service client.
type LawSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the law service origin (default "http://www.law.go.kr").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIID is the OC credential issued by the law service.
	APIID string `json:"api_id,omitempty" yaml:"api_id,omitempty"`

	// MaxConcurrent bounds in-flight requests to the service (default 5).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// DisplayPerQuery is the hit count requested per list query (default 10).
	DisplayPerQuery int `json:"display_per_query" yaml:"display_per_query"`
}

// AIConfig holds settings for the generative judgment service.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the chat-completions endpoint. Empty uses the
	// public OpenAI endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the retry budget for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxConcurrent bounds in-flight judgment calls (default 3).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// InvestigatorConfig holds the evidence-gathering limits.
type InvestigatorConfig struct {
	// MaxAnalysisDocs caps how many fetched documents enter extraction
	// per search pass (default 20).
	MaxAnalysisDocs int `json:"max_analysis_docs" yaml:"max_analysis_docs"`

	// MaxEvidence is the hard cap on deduplicated reviews per scenario
	// (default 50).
	MaxEvidence int `json:"max_evidence" yaml:"max_evidence"`

	// MaxCandidates caps the list presented to the selector (default 30).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// FallbackCandidates is how many leading candidates to keep when the
	// selector fails or matches nothing (default 10).
	FallbackCandidates int `json:"fallback_candidates" yaml:"fallback_candidates"`

	// DirectAnalysisLimit is the text length below which a document is
	// analyzed in one call (default 5000).
	DirectAnalysisLimit int `json:"direct_analysis_limit" yaml:"direct_analysis_limit"`

	// ChunkSize and ChunkOverlap control sliding-window analysis of
	// oversized documents (defaults 4000 and 300).
	ChunkSize    int `json:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// IndexScanThreshold is the parsed-article count above which a
	// table-of-contents scan replaces full-text analysis (default 5).
	IndexScanThreshold int `json:"index_scan_threshold" yaml:"index_scan_threshold"`

	// MaxIndexArticles caps how many articles an index scan may select
	// (default 5).
	MaxIndexArticles int `json:"max_index_articles" yaml:"max_index_articles"`

	// CachePath enables the SQLite-backed analysis cache when set.
	// Empty keeps the in-memory per-instance cache.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`
}

// Defaults fills zero-valued limits with their documented defaults.
func (c InvestigatorConfig) Defaults() InvestigatorConfig {
	if c.MaxAnalysisDocs <= 0 {
		c.MaxAnalysisDocs = 20
	}
	if c.MaxEvidence <= 0 {
		c.MaxEvidence = 50
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 30
	}
	if c.FallbackCandidates <= 0 {
		c.FallbackCandidates = 10
	}
	if c.DirectAnalysisLimit <= 0 {
		c.DirectAnalysisLimit = 5000
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 4000
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = 300
	}
	if c.IndexScanThreshold <= 0 {
		c.IndexScanThreshold = 5
	}
	if c.MaxIndexArticles <= 0 {
		c.MaxIndexArticles = 5
	}
	return c
}

// Config groups every stage configuration for the pipeline.
type Config struct {
	LawSearch    LawSearchConfig    `json:"law_search" yaml:"law_search"`
	AI           AIConfig           `json:"ai" yaml:"ai"`
	Investigator InvestigatorConfig `json:"investigator" yaml:"investigator"`
}
