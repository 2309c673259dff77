package score

import (
	"testing"

	"github.com/192005chandrakant/credlens/internal/model"
)

func claimN(n int) []model.Claim {
	claims := make([]model.Claim, n)
	for i := range claims {
		claims[i] = model.Claim{ID: model.NewClaimID(), Text: "claim", Confidence: 0.9}
	}
	return claims
}

func citationSet(weights ...float64) []model.Citation {
	citations := make([]model.Citation, len(weights))
	for i, w := range weights {
		citations[i] = model.Citation{
			ID:                string(rune('a' + i)),
			URL:               "https://example.com/" + string(rune('a'+i)),
			Domain:            "example.com",
			CredibilityWeight: w,
		}
	}
	return citations
}

func judgementWith(stances ...model.CitationStance) []model.StanceJudgement {
	return []model.StanceJudgement{{
		ClaimID:         "c1",
		Stance:          model.StanceSupports,
		Confidence:      0.9,
		CitationStances: stances,
	}}
}

func TestRiskScorer_NoEvidence(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())

	result := scorer.Score(claimN(1), nil, nil)

	// Neutral prior 50 minus one claim penalty.
	if result.Score != 45 {
		t.Errorf("Expected score 45 with no evidence and one claim, got %d", result.Score)
	}
	if result.Band.High-result.Band.Mid != 0.3 {
		t.Errorf("Expected wide confidence range 0.3 with no citations, got %v", result.Band.High-result.Band.Mid)
	}
}

func TestRiskScorer_AllSupporting(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	citations := citationSet(0.9, 0.8, 0.7)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceSupports},
		model.CitationStance{CitationID: "b", Stance: model.StanceSupports},
		model.CitationStance{CitationID: "c", Stance: model.StanceSupports},
	)

	result := scorer.Score(claimN(1), citations, judgements)

	// 100 from unanimous support, minus one claim penalty.
	if result.Score != 95 {
		t.Errorf("Expected score 95, got %d", result.Score)
	}
	if result.SupportRatio != 1 {
		t.Errorf("Expected support ratio 1, got %v", result.SupportRatio)
	}
}

func TestRiskScorer_RefuteMajority(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	// Refuting citation carries more weight than the supporting one.
	citations := citationSet(0.9, 0.3)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceRefutes},
		model.CitationStance{CitationID: "b", Stance: model.StanceSupports},
	)

	result := scorer.Score(nil, citations, judgements)

	// refuteRatio = 0.9/1.2 = 0.75 -> 100 - 75 = 25, no claim penalty.
	if result.Score != 25 {
		t.Errorf("Expected score 25, got %d", result.Score)
	}
	if result.RefuteRatio <= result.SupportRatio {
		t.Errorf("Expected refute ratio to dominate, got support=%v refute=%v",
			result.SupportRatio, result.RefuteRatio)
	}
}

func TestRiskScorer_NeutralStancesDiluteSupport(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	citations := citationSet(0.5, 0.5)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceSupports},
		model.CitationStance{CitationID: "b", Stance: model.StanceNeedsContext},
	)

	result := scorer.Score(nil, citations, judgements)

	// supportRatio = 0.5 -> score 50.
	if result.Score != 50 {
		t.Errorf("Expected score 50 with half-neutral evidence, got %d", result.Score)
	}
}

func TestRiskScorer_ClaimPenaltyCap(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	citations := citationSet(0.9)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceSupports},
	)

	result := scorer.Score(claimN(10), citations, judgements)

	// 10 claims would cost 50 points uncapped; cap holds it to 20.
	if result.Score != 80 {
		t.Errorf("Expected score 80 with penalty capped at 20, got %d", result.Score)
	}
}

func TestRiskScorer_ScoreNeverNegative(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	citations := citationSet(1.0)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceRefutes},
	)

	result := scorer.Score(claimN(10), citations, judgements)

	if result.Score < 0 {
		t.Errorf("Expected score clamped at 0, got %d", result.Score)
	}
}

func TestRiskScorer_Deterministic(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	claims := claimN(3)
	citations := citationSet(0.9, 0.6, 0.4)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceSupports},
		model.CitationStance{CitationID: "b", Stance: model.StanceRefutes},
		model.CitationStance{CitationID: "c", Stance: model.StanceUnrelated},
	)

	first := scorer.Score(claims, citations, judgements)
	for i := 0; i < 10; i++ {
		again := scorer.Score(claims, citations, judgements)
		if again != first {
			t.Fatalf("Expected identical results on repeat runs, got %+v then %+v", first, again)
		}
	}
}

func TestRiskScorer_ConfidenceBandSpread(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())

	tests := []struct {
		name      string
		citations int
		spread    float64
	}{
		{"no citations", 0, 0.3},
		{"sparse", 2, 0.2},
		{"dense", 3, 0.1},
		{"very dense", 7, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := scorer.band(50, tt.citations)
			got := band.High - band.Mid
			if got != tt.spread {
				t.Errorf("Expected spread %v for %d citations, got %v", tt.spread, tt.citations, got)
			}
		})
	}
}

func TestRiskScorer_BandMidClamped(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())

	low := scorer.band(0, 3)
	if low.Mid != 0.1 {
		t.Errorf("Expected mid clamped to 0.1 at score 0, got %v", low.Mid)
	}
	high := scorer.band(100, 3)
	if high.Mid != 0.9 {
		t.Errorf("Expected mid clamped to 0.9 at score 100, got %v", high.Mid)
	}
	if low.Low < 0 || high.High > 1 {
		t.Errorf("Expected band inside [0,1], got low=%v high=%v", low.Low, high.High)
	}
}

func TestRiskScorer_UnknownCitationIDHasZeroWeight(t *testing.T) {
	scorer := NewRiskScorer(DefaultParams())
	citations := citationSet(0.9)
	judgements := judgementWith(
		model.CitationStance{CitationID: "a", Stance: model.StanceSupports},
		model.CitationStance{CitationID: "ghost", Stance: model.StanceRefutes},
	)

	result := scorer.Score(nil, citations, judgements)

	// The unknown ID contributes zero weight, so support stays unanimous.
	if result.Score != 100 {
		t.Errorf("Expected score 100 ignoring unknown citation ID, got %d", result.Score)
	}
}
