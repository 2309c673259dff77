package evidence

import (
	"context"

	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
)

// LLMFallbackSource adapts the model's evidence-recall capability to the
// Source interface. The aggregator consults it only when primary sources
// failed or came back too thin.
type LLMFallbackSource struct {
	suggester llm.EvidenceSuggester
}

// NewLLMFallbackSource creates the fallback source.
func NewLLMFallbackSource(suggester llm.EvidenceSuggester) *LLMFallbackSource {
	return &LLMFallbackSource{suggester: suggester}
}

// Name implements Source.
func (s *LLMFallbackSource) Name() string { return "llm_fallback" }

// Gather implements Source.
func (s *LLMFallbackSource) Gather(ctx context.Context, claims []model.Claim) ([]model.Citation, error) {
	return s.suggester.SuggestEvidence(ctx, claims)
}
