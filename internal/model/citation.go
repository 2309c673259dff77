package model

import "time"

// Citation represents a piece of external evidence relevant to one or more claims.
type Citation struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	URL               string     `json:"url"`
	Domain            string     `json:"domain,omitempty"`
	Snippet           string     `json:"snippet,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	SourceType        SourceType `json:"source_type"`
	RelevanceScore    float64    `json:"relevance_score"`    // 0-1
	CredibilityWeight float64    `json:"credibility_weight"` // 0-1
	RecencyWeight     float64    `json:"recency_weight"`     // 0-1
}

// SourceType classifies which evidence source produced a citation.
type SourceType string

const (
	SourceFactCheck    SourceType = "fact_check"    // Fact-check search API
	SourceSimilarClaim SourceType = "similar_claim" // Vector-index similarity hit
	SourceGrounding    SourceType = "grounding"     // External grounding (feeds)
	SourceLLMFallback  SourceType = "llm_fallback"  // LLM-suggested evidence
)

// Key returns the deduplication key for a citation.
func (c Citation) Key() string {
	return c.Domain + ":" + c.URL
}
