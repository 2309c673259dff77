package model

// AnalyzeRequest is the single entry point's input.
type AnalyzeRequest struct {
	Content       string            `json:"content"`
	ContentType   ContentType       `json:"content_type"`
	LanguageHint  string            `json:"language_hint,omitempty"`
	ForceHighTier bool              `json:"force_high_tier,omitempty"`
	Context       map[string]string `json:"context,omitempty"`
}
