package stance

import (
	"context"
	"errors"
	"testing"

	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
)

// fakeClient returns canned judgements or errors per claim ID.
type fakeClient struct {
	judgements map[string]model.StanceJudgement
	errs       map[string]error
	calls      int
}

func (f *fakeClient) ExtractClaims(ctx context.Context, content, language string, tier llm.Tier) ([]model.Claim, error) {
	return nil, nil
}

func (f *fakeClient) JudgeStance(ctx context.Context, claim model.Claim, citations []model.Citation, tier llm.Tier) (model.StanceJudgement, error) {
	f.calls++
	if err := f.errs[claim.ID]; err != nil {
		return model.StanceJudgement{}, err
	}
	return f.judgements[claim.ID], nil
}

func (f *fakeClient) GenerateVerdict(ctx context.Context, claims []model.Claim, judgements []model.StanceJudgement, citations []model.Citation, tier llm.Tier) (llm.VerdictExplanation, error) {
	return llm.VerdictExplanation{}, nil
}

func TestScorer_NoCitationsDefaultsWithoutModelCall(t *testing.T) {
	client := &fakeClient{}
	scorer := NewScorer(client, nil)
	claims := []model.Claim{{ID: "c1", Text: "claim"}}

	judgements := scorer.Score(context.Background(), claims, nil, llm.TierFlash)

	if client.calls != 0 {
		t.Errorf("Expected no model calls with zero citations, got %d", client.calls)
	}
	if len(judgements) != 1 {
		t.Fatalf("Expected 1 judgement, got %d", len(judgements))
	}
	if judgements[0].Stance != model.StanceNeedsContext || judgements[0].Confidence != 0 {
		t.Errorf("Expected the fail-closed default, got %+v", judgements[0])
	}
}

func TestScorer_ModelErrorDegradesToDefault(t *testing.T) {
	client := &fakeClient{
		judgements: map[string]model.StanceJudgement{
			"good": {ClaimID: "good", Stance: model.StanceSupports, Confidence: 0.9},
		},
		errs: map[string]error{"bad": errors.New("rate limited")},
	}
	scorer := NewScorer(client, nil)
	claims := []model.Claim{{ID: "good"}, {ID: "bad"}}
	citations := []model.Citation{{ID: "cit-1"}}

	judgements := scorer.Score(context.Background(), claims, citations, llm.TierFlash)

	if len(judgements) != 2 {
		t.Fatalf("Expected a judgement per claim, got %d", len(judgements))
	}
	if judgements[0].Stance != model.StanceSupports {
		t.Errorf("Expected the healthy claim judged normally, got %+v", judgements[0])
	}
	if judgements[1].Stance != model.StanceNeedsContext {
		t.Errorf("Expected the failed claim to default, got %+v", judgements[1])
	}
}

func TestDistribution_Ratios(t *testing.T) {
	judgements := []model.StanceJudgement{
		{ClaimID: "c1", CitationStances: []model.CitationStance{
			{CitationID: "a", Stance: model.StanceSupports},
			{CitationID: "b", Stance: model.StanceSupports},
			{CitationID: "c", Stance: model.StanceRefutes},
		}},
		{ClaimID: "c2", CitationStances: []model.CitationStance{
			{CitationID: "d", Stance: model.StanceNeedsContext},
		}},
	}

	d := Distribution(judgements)
	if d.SupportRatio != 0.5 {
		t.Errorf("Expected support ratio 0.5, got %v", d.SupportRatio)
	}
	if d.RefuteRatio != 0.25 {
		t.Errorf("Expected refute ratio 0.25, got %v", d.RefuteRatio)
	}
	if d.NeutralRatio != 0.25 {
		t.Errorf("Expected neutral ratio 0.25, got %v", d.NeutralRatio)
	}
}

func TestDistribution_UnrelatedCountsAsNeutral(t *testing.T) {
	judgements := []model.StanceJudgement{
		{ClaimID: "c1", CitationStances: []model.CitationStance{
			{CitationID: "a", Stance: model.StanceUnrelated},
			{CitationID: "b", Stance: model.StanceSupports},
		}},
	}

	d := Distribution(judgements)
	if d.NeutralRatio != 0.5 {
		t.Errorf("Expected UNRELATED counted as neutral, got %v", d.NeutralRatio)
	}
}

func TestDistribution_EmptyCollapsesToNeutral(t *testing.T) {
	d := Distribution(nil)
	if d.NeutralRatio != 1 || d.SupportRatio != 0 || d.RefuteRatio != 0 {
		t.Errorf("Expected neutral=1 with no citation stances, got %+v", d)
	}

	// Judgements without citation stances collapse the same way.
	d = Distribution([]model.StanceJudgement{{ClaimID: "c1", Stance: model.StanceNeedsContext}})
	if d.NeutralRatio != 1 {
		t.Errorf("Expected neutral=1, got %+v", d)
	}
}
