// Package llm wraps the language-model collaborator behind typed interfaces.
// The pipeline never sees raw completions: every call returns parsed, typed
// output, and malformed model responses fail closed to documented defaults
// instead of leaking into control flow.
package llm

import (
	"context"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Tier names an LLM configuration of differing cost and capability.
type Tier string

const (
	// TierFlash is the cheap, fast tier used for the first pass.
	TierFlash Tier = "flash"
	// TierPro is the expensive reasoning tier used after escalation.
	TierPro Tier = "pro"
)

// VerdictExplanation is the free-text portion of a verdict, produced by the
// model and passed through the pipeline unchanged.
type VerdictExplanation struct {
	Explanation  string   `json:"explanation"`
	Manipulation []string `json:"manipulation_techniques"`
	LearnCard    string   `json:"learn_card"`
}

// Client is the tiered LLM collaborator.
type Client interface {
	// ExtractClaims pulls atomic factual assertions out of content.
	// Malformed model output yields an empty slice, not an error.
	ExtractClaims(ctx context.Context, content, language string, tier Tier) ([]model.Claim, error)

	// JudgeStance classifies how the given citations relate to one claim.
	// Malformed model output yields a NEEDS_CONTEXT judgement with zero
	// evidence strength.
	JudgeStance(ctx context.Context, claim model.Claim, citations []model.Citation, tier Tier) (model.StanceJudgement, error)

	// GenerateVerdict produces the explanation, manipulation-technique list,
	// and learn card for a completed analysis.
	GenerateVerdict(ctx context.Context, claims []model.Claim, judgements []model.StanceJudgement, citations []model.Citation, tier Tier) (VerdictExplanation, error)
}

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// DefaultJudgement is the fail-closed stance for a claim, used when the model
// output cannot be parsed or when no citations exist.
func DefaultJudgement(claimID string) model.StanceJudgement {
	return model.StanceJudgement{
		ClaimID:          claimID,
		Stance:           model.StanceNeedsContext,
		Confidence:       0,
		EvidenceStrength: 0,
	}
}
