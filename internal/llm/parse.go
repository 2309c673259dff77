package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/192005chandrakant/credlens/internal/model"
)

// The model response contract is a typed interface, not string scanning:
// each call has a response struct here and a parser that either produces a
// valid value or an error the caller turns into a documented default.

type claimResponse struct {
	Claims []struct {
		Text       string  `json:"text"`
		Who        string  `json:"who"`
		What       string  `json:"what"`
		Where      string  `json:"where"`
		When       string  `json:"when"`
		Confidence float64 `json:"confidence"`
	} `json:"claims"`
}

type stanceResponse struct {
	Stance           string  `json:"stance"`
	Confidence       float64 `json:"confidence"`
	EvidenceStrength float64 `json:"evidence_strength"`
	Citations        []struct {
		CitationID string `json:"citation_id"`
		Stance     string `json:"stance"`
	} `json:"citations"`
}

type verdictResponse struct {
	Explanation  string   `json:"explanation"`
	Manipulation []string `json:"manipulation_techniques"`
	LearnCard    string   `json:"learn_card"`
}

func parseClaims(raw string) ([]model.Claim, error) {
	var resp claimResponse
	if err := unmarshalModelJSON(raw, &resp); err != nil {
		return nil, err
	}
	claims := make([]model.Claim, 0, len(resp.Claims))
	for _, c := range resp.Claims {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		claims = append(claims, model.Claim{
			ID:         model.NewClaimID(),
			Text:       text,
			Who:        strings.TrimSpace(c.Who),
			What:       strings.TrimSpace(c.What),
			Where:      strings.TrimSpace(c.Where),
			When:       strings.TrimSpace(c.When),
			Confidence: clamp01(c.Confidence),
		})
	}
	return claims, nil
}

func parseStance(raw, claimID string, citations []model.Citation) (model.StanceJudgement, error) {
	var resp stanceResponse
	if err := unmarshalModelJSON(raw, &resp); err != nil {
		return model.StanceJudgement{}, err
	}
	stance, ok := parseStanceLabel(resp.Stance)
	if !ok {
		return model.StanceJudgement{}, fmt.Errorf("unknown stance label %q", resp.Stance)
	}

	known := make(map[string]bool, len(citations))
	for _, c := range citations {
		known[c.ID] = true
	}
	var citationStances []model.CitationStance
	for _, cs := range resp.Citations {
		// Drop hallucinated citation IDs rather than failing the judgement.
		if !known[cs.CitationID] {
			continue
		}
		s, ok := parseStanceLabel(cs.Stance)
		if !ok {
			continue
		}
		citationStances = append(citationStances, model.CitationStance{CitationID: cs.CitationID, Stance: s})
	}

	return model.StanceJudgement{
		ClaimID:          claimID,
		Stance:           stance,
		Confidence:       clamp01(resp.Confidence),
		EvidenceStrength: clamp01(resp.EvidenceStrength),
		CitationStances:  citationStances,
	}, nil
}

func parseVerdict(raw string) (VerdictExplanation, error) {
	var resp verdictResponse
	if err := unmarshalModelJSON(raw, &resp); err != nil {
		return VerdictExplanation{}, err
	}
	return VerdictExplanation{
		Explanation:  strings.TrimSpace(resp.Explanation),
		Manipulation: resp.Manipulation,
		LearnCard:    strings.TrimSpace(resp.LearnCard),
	}, nil
}

func parseStanceLabel(s string) (model.Stance, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUPPORTS":
		return model.StanceSupports, true
	case "REFUTES":
		return model.StanceRefutes, true
	case "NEEDS_CONTEXT":
		return model.StanceNeedsContext, true
	case "UNRELATED":
		return model.StanceUnrelated, true
	}
	return "", false
}

// unmarshalModelJSON strips markdown code fences the model sometimes wraps
// around JSON, then unmarshals strictly into dst.
func unmarshalModelJSON(raw string, dst any) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return fmt.Errorf("empty model response")
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("malformed model JSON: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
