package model

// Stance classifies a relationship between evidence and a claim.
type Stance string

const (
	StanceSupports     Stance = "SUPPORTS"
	StanceRefutes      Stance = "REFUTES"
	StanceNeedsContext Stance = "NEEDS_CONTEXT"
	StanceUnrelated    Stance = "UNRELATED"
)

// CitationStance records how a single citation relates to the judged claim.
type CitationStance struct {
	CitationID string `json:"citation_id"`
	Stance     Stance `json:"stance"`
}

// StanceJudgement is the per-claim output of stance analysis.
type StanceJudgement struct {
	ClaimID          string           `json:"claim_id"`
	Stance           Stance           `json:"stance"`
	Confidence       float64          `json:"confidence"`        // 0-1
	EvidenceStrength float64          `json:"evidence_strength"` // 0-1
	CitationStances  []CitationStance `json:"citation_stances,omitempty"`
}

// CitationIDs returns the IDs of the citations this judgement considered.
func (j StanceJudgement) CitationIDs() []string {
	ids := make([]string, 0, len(j.CitationStances))
	for _, cs := range j.CitationStances {
		ids = append(ids, cs.CitationID)
	}
	return ids
}

// StanceDistribution is the citation-level stance breakdown for a whole
// analysis, normalized so the three ratios sum to 1.
type StanceDistribution struct {
	SupportRatio float64 `json:"support_ratio"`
	RefuteRatio  float64 `json:"refute_ratio"`
	NeutralRatio float64 `json:"neutral_ratio"`
}
