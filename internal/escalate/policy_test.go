package escalate

import (
	"testing"

	"github.com/192005chandrakant/credlens/internal/model"
)

func claims(n int) []model.Claim {
	out := make([]model.Claim, n)
	for i := range out {
		out[i] = model.Claim{ID: model.NewClaimID(), Text: "claim"}
	}
	return out
}

func judgement(stance model.Stance, confidence float64) model.StanceJudgement {
	return model.StanceJudgement{ClaimID: model.NewClaimID(), Stance: stance, Confidence: confidence}
}

func TestDecide_Force(t *testing.T) {
	if !Decide(nil, nil, true, DefaultThresholds()) {
		t.Error("Expected forced escalation to return true")
	}
}

func TestDecide_ClaimCount(t *testing.T) {
	thresholds := DefaultThresholds()

	if Decide(claims(4), nil, false, thresholds) {
		t.Error("Expected no escalation below the claim threshold")
	}
	if !Decide(claims(5), nil, false, thresholds) {
		t.Error("Expected escalation at 5 claims")
	}
	if !Decide(claims(6), nil, false, thresholds) {
		t.Error("Expected escalation above the claim threshold")
	}
}

func TestDecide_NeedsContextCount(t *testing.T) {
	thresholds := DefaultThresholds()

	one := []model.StanceJudgement{
		judgement(model.StanceNeedsContext, 0.9),
		judgement(model.StanceSupports, 0.9),
	}
	if Decide(claims(2), one, false, thresholds) {
		t.Error("Expected no escalation with a single NEEDS_CONTEXT judgement")
	}

	two := []model.StanceJudgement{
		judgement(model.StanceNeedsContext, 0.9),
		judgement(model.StanceNeedsContext, 0.9),
		judgement(model.StanceSupports, 0.9),
	}
	if !Decide(claims(3), two, false, thresholds) {
		t.Error("Expected escalation with two NEEDS_CONTEXT judgements")
	}
}

func TestDecide_LowMeanConfidence(t *testing.T) {
	thresholds := DefaultThresholds()

	low := []model.StanceJudgement{
		judgement(model.StanceSupports, 0.5),
		judgement(model.StanceRefutes, 0.6),
	}
	if !Decide(claims(2), low, false, thresholds) {
		t.Error("Expected escalation with mean confidence 0.55")
	}

	high := []model.StanceJudgement{
		judgement(model.StanceSupports, 0.8),
		judgement(model.StanceRefutes, 0.7),
	}
	if Decide(claims(2), high, false, thresholds) {
		t.Error("Expected no escalation with mean confidence 0.75")
	}
}

func TestDecide_NoJudgementsNoConfidenceTrigger(t *testing.T) {
	// An empty judgement list must not divide by zero or escalate on its own.
	if Decide(claims(1), nil, false, DefaultThresholds()) {
		t.Error("Expected no escalation with one claim and no judgements")
	}
}

func TestDecide_CustomThresholds(t *testing.T) {
	thresholds := Thresholds{ClaimCount: 2, NeedsContextCount: 1, MinMeanConfidence: 0.3}

	if !Decide(claims(2), nil, false, thresholds) {
		t.Error("Expected escalation at the custom claim threshold")
	}
	if !Decide(claims(1), []model.StanceJudgement{judgement(model.StanceNeedsContext, 0.9)}, false, thresholds) {
		t.Error("Expected escalation at the custom NEEDS_CONTEXT threshold")
	}
}
