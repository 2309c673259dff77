// Package stance converts claims plus gathered evidence into per-claim stance
// judgements and an aggregate stance distribution.
package stance

import (
	"context"
	"log/slog"

	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
)

// Scorer produces one StanceJudgement per claim.
type Scorer struct {
	client llm.Client
	logger *slog.Logger
}

// NewScorer creates a stance scorer over the given LLM client.
func NewScorer(client llm.Client, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{client: client, logger: logger}
}

// Score judges each claim against the citation set. A claim with no citations
// defaults to NEEDS_CONTEXT with zero evidence strength; a failed model call
// degrades the same way rather than failing the analysis.
func (s *Scorer) Score(ctx context.Context, claims []model.Claim, citations []model.Citation, tier llm.Tier) []model.StanceJudgement {
	judgements := make([]model.StanceJudgement, 0, len(claims))
	for _, claim := range claims {
		if len(citations) == 0 {
			judgements = append(judgements, llm.DefaultJudgement(claim.ID))
			continue
		}
		j, err := s.client.JudgeStance(ctx, claim, citations, tier)
		if err != nil {
			s.logger.Warn("stance judgement failed, defaulting to NEEDS_CONTEXT",
				"claim_id", claim.ID, "err", err)
			judgements = append(judgements, llm.DefaultJudgement(claim.ID))
			continue
		}
		judgements = append(judgements, j)
	}
	return judgements
}

// Distribution aggregates citation-level stances across all judgements into
// support/refute/neutral ratios summing to 1. NEEDS_CONTEXT and UNRELATED
// citations count as neutral. With no citation stances at all the
// distribution collapses to neutral=1.
func Distribution(judgements []model.StanceJudgement) model.StanceDistribution {
	var support, refute, neutral int
	for _, j := range judgements {
		for _, cs := range j.CitationStances {
			switch cs.Stance {
			case model.StanceSupports:
				support++
			case model.StanceRefutes:
				refute++
			default:
				neutral++
			}
		}
	}

	total := support + refute + neutral
	if total == 0 {
		return model.StanceDistribution{NeutralRatio: 1}
	}
	return model.StanceDistribution{
		SupportRatio: float64(support) / float64(total),
		RefuteRatio:  float64(refute) / float64(total),
		NeutralRatio: float64(neutral) / float64(total),
	}
}
