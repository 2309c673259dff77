// Package score holds the deterministic half of verdict generation: the
// numeric credibility score, the confidence band, and the badge/text mapping.
// Nothing here calls a model or reads a clock, so every result is exactly
// reproducible from its inputs.
package score

import (
	"math"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Params are the tunable scoring constants. The defaults mirror
// model.DefaultConfig; they are product policy knobs, not derived values.
type Params struct {
	ClaimPenalty       int     // points deducted per extracted claim
	ClaimPenaltyCap    int     // ceiling on the total claim penalty
	RangeNoEvidence    float64 // confidence range with zero citations
	RangeSparse        float64 // confidence range below DenseCitationCount
	RangeDense         float64 // confidence range at or above DenseCitationCount
	DenseCitationCount int
}

// ParamsFromConfig builds Params from configuration.
func ParamsFromConfig(cfg model.ScoringConfig) Params {
	return Params{
		ClaimPenalty:       cfg.ClaimPenalty,
		ClaimPenaltyCap:    cfg.ClaimPenaltyCap,
		RangeNoEvidence:    cfg.RangeNoEvidence,
		RangeSparse:        cfg.RangeSparse,
		RangeDense:         cfg.RangeDense,
		DenseCitationCount: cfg.DenseCitationCount,
	}
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return ParamsFromConfig(model.DefaultConfig().Scoring)
}

// Result is the deterministic scoring output.
type Result struct {
	Score        int // 0-100, higher is more credible
	Band         model.ConfidenceBand
	SupportRatio float64 // credibility-weighted share of supporting citations
	RefuteRatio  float64
}

// RiskScorer computes the credibility score from stance judgements and
// citation trust weights.
type RiskScorer struct {
	params Params
}

// NewRiskScorer creates a scorer with the given constants.
func NewRiskScorer(params Params) *RiskScorer {
	return &RiskScorer{params: params}
}

// Score computes the credibility score, confidence band, and weighted stance
// ratios for one analysis.
func (s *RiskScorer) Score(claims []model.Claim, citations []model.Citation, judgements []model.StanceJudgement) Result {
	weightByID := make(map[string]float64, len(citations))
	for _, c := range citations {
		weightByID[c.ID] = c.CredibilityWeight
	}

	var weightedSupport, weightedRefute, weightedNeutral float64
	for _, j := range judgements {
		for _, cs := range j.CitationStances {
			w := weightByID[cs.CitationID]
			switch cs.Stance {
			case model.StanceSupports:
				weightedSupport += w
			case model.StanceRefutes:
				weightedRefute += w
			default:
				weightedNeutral += w
			}
		}
	}

	var (
		score        int
		supportRatio float64
		refuteRatio  float64
	)
	total := weightedSupport + weightedRefute + weightedNeutral
	if len(citations) == 0 || total == 0 {
		score = 50 // neutral prior: no evidence to move the needle either way
	} else {
		supportRatio = weightedSupport / total
		refuteRatio = weightedRefute / total
		if refuteRatio > supportRatio {
			score = 100 - int(math.Round(refuteRatio*100))
			if score < 0 {
				score = 0
			}
		} else {
			score = int(math.Round(supportRatio * 100))
			if score > 100 {
				score = 100
			}
		}
	}

	// More claims in one analysis lowers confidence in a single aggregate
	// score. Documented policy, applied after the evidence score.
	penalty := s.params.ClaimPenalty * len(claims)
	if penalty > s.params.ClaimPenaltyCap {
		penalty = s.params.ClaimPenaltyCap
	}
	score -= penalty
	if score < 0 {
		score = 0
	}

	return Result{
		Score:        score,
		Band:         s.band(score, len(citations)),
		SupportRatio: supportRatio,
		RefuteRatio:  refuteRatio,
	}
}

func (s *RiskScorer) band(score, citationCount int) model.ConfidenceBand {
	var spread float64
	switch {
	case citationCount == 0:
		spread = s.params.RangeNoEvidence
	case citationCount >= s.params.DenseCitationCount:
		spread = s.params.RangeDense
	default:
		spread = s.params.RangeSparse
	}

	mid := clamp(float64(score)/100, 0.1, 0.9)
	return model.ConfidenceBand{
		Low:  clamp(mid-spread, 0, 1),
		Mid:  mid,
		High: clamp(mid+spread, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
