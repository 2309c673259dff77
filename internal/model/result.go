package model

import "time"

// Badge is the traffic-light credibility indicator derived from the score.
type Badge string

const (
	BadgeGreen  Badge = "GREEN"
	BadgeYellow Badge = "YELLOW"
	BadgeRed    Badge = "RED"
)

// ContentType identifies what kind of content was submitted for analysis.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeURL   ContentType = "url"
	ContentTypeImage ContentType = "image"
)

// Valid reports whether the content type is one the pipeline accepts.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeText, ContentTypeURL, ContentTypeImage:
		return true
	}
	return false
}

// ConfidenceBand expresses score uncertainty as a low/mid/high band on [0,1].
type ConfidenceBand struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// AnalysisResult is the complete, immutable output of one pipeline run.
// It is the unit stored in the cache and persisted by the storage collaborator.
type AnalysisResult struct {
	ContentID        string             `json:"content_id"`
	Language         string             `json:"language"`
	ModelTier        string             `json:"model_tier"`
	Claims           []Claim            `json:"claims"`
	Citations        []Citation         `json:"citations"`
	StanceJudgements []StanceJudgement  `json:"stance_judgements"`
	Distribution     StanceDistribution `json:"stance_distribution"`
	Score            int                `json:"score"` // 0-100 credibility score
	Badge            Badge              `json:"badge"`
	VerdictText      string             `json:"verdict_text"`
	Explanation      string             `json:"explanation,omitempty"`
	ConfidenceBand   ConfidenceBand     `json:"confidence_band"`
	Manipulation     []string           `json:"manipulation_techniques,omitempty"`
	LearnCard        string             `json:"learn_card,omitempty"`
	ProcessingTimeMS int64              `json:"processing_time_ms"`
	ModelEscalated   bool               `json:"model_escalated"`
	CacheHit         bool               `json:"cache_hit"`
	CreatedAt        time.Time          `json:"created_at"`
}
