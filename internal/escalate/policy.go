// Package escalate decides whether an analysis should be re-run on the
// expensive model tier. The decision is a pure function of the first pass's
// output and the caller's force flag, so it is independently testable.
package escalate

import "github.com/192005chandrakant/credlens/internal/model"

// Thresholds are the tunable escalation knobs. The defaults mirror
// model.DefaultConfig and are policy choices, not derived values.
type Thresholds struct {
	ClaimCount        int     // escalate at this many extracted claims
	NeedsContextCount int     // escalate at this many NEEDS_CONTEXT judgements
	MinMeanConfidence float64 // escalate below this mean stance confidence
}

// FromConfig builds Thresholds from configuration.
func FromConfig(cfg model.EscalationConfig) Thresholds {
	return Thresholds{
		ClaimCount:        cfg.ClaimThreshold,
		NeedsContextCount: cfg.NeedsContextThreshold,
		MinMeanConfidence: cfg.MinMeanConfidence,
	}
}

// DefaultThresholds returns the standard escalation knobs.
func DefaultThresholds() Thresholds {
	return FromConfig(model.DefaultConfig().Escalation)
}

// Decide reports whether the analysis should be re-run on the expensive tier.
// Escalation triggers when the caller forces it, when the claim count reaches
// the threshold, when stance judgements show conflicting signal, or when mean
// stance confidence is low.
func Decide(claims []model.Claim, judgements []model.StanceJudgement, force bool, t Thresholds) bool {
	if force {
		return true
	}
	if len(claims) >= t.ClaimCount {
		return true
	}

	needsContext := 0
	var confidenceSum float64
	for _, j := range judgements {
		if j.Stance == model.StanceNeedsContext {
			needsContext++
		}
		confidenceSum += j.Confidence
	}
	if needsContext >= t.NeedsContextCount {
		return true
	}
	if len(judgements) > 0 && confidenceSum/float64(len(judgements)) < t.MinMeanConfidence {
		return true
	}
	return false
}
