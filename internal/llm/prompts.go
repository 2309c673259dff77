package llm

import (
	"fmt"
	"strings"

	"github.com/192005chandrakant/credlens/internal/model"
)

const claimSystemPrompt = `You extract atomic factual assertions from content for misinformation analysis.
Respond with JSON only, no prose, in this shape:
{"claims": [{"text": "...", "who": "...", "what": "...", "where": "...", "when": "...", "confidence": 0.0}]}
Rules:
- One entry per checkable factual assertion. Skip opinions and questions.
- "what" is required; "who"/"where"/"when" only when the claim states them.
- "confidence" is your extraction confidence between 0 and 1.
- At most 10 claims.`

const stanceSystemPrompt = `You judge how evidence relates to a claim. Respond with JSON only:
{"stance": "SUPPORTS|REFUTES|NEEDS_CONTEXT|UNRELATED", "confidence": 0.0, "evidence_strength": 0.0,
 "citations": [{"citation_id": "...", "stance": "SUPPORTS|REFUTES|NEEDS_CONTEXT|UNRELATED"}]}
Rules:
- Judge only from the citations given. Never invent evidence.
- "stance" is the overall relationship of the evidence to the claim.
- "citations" gives a per-citation stance for every citation ID you were shown.
- "confidence" and "evidence_strength" are between 0 and 1.`

const verdictSystemPrompt = `You write the narrative part of a credibility verdict. Respond with JSON only:
{"explanation": "...", "manipulation_techniques": ["..."], "learn_card": "..."}
Rules:
- "explanation": 2-4 sentences describing what the evidence shows. Describe support, never truth.
- "manipulation_techniques": named techniques present in the content (e.g. "cherry-picking",
  "false attribution", "emotional framing"); empty list when none.
- "learn_card": one short tip teaching the reader how to spot this pattern themselves.`

func buildClaimPrompt(content, language string) string {
	var b strings.Builder
	if language != "" && language != "en" {
		fmt.Fprintf(&b, "Content language: %s\n\n", language)
	}
	b.WriteString("Content to analyze:\n\n")
	b.WriteString(truncate(content, 6000))
	return b.String()
}

func buildStancePrompt(claim model.Claim, citations []model.Citation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\n\nEvidence:\n", claim.Text)
	for _, c := range citations {
		fmt.Fprintf(&b, "- citation_id=%s [%s] %s\n  %s\n", c.ID, c.Domain, c.Title, truncate(c.Snippet, 400))
	}
	return b.String()
}

func buildVerdictPrompt(claims []model.Claim, judgements []model.StanceJudgement, citations []model.Citation) string {
	var b strings.Builder
	b.WriteString("Claims and stance judgements:\n")
	stanceByID := make(map[string]model.StanceJudgement, len(judgements))
	for _, j := range judgements {
		stanceByID[j.ClaimID] = j
	}
	for _, c := range claims {
		j := stanceByID[c.ID]
		fmt.Fprintf(&b, "- %q → %s (confidence %.2f)\n", c.Text, j.Stance, j.Confidence)
	}
	b.WriteString("\nEvidence consulted:\n")
	for _, c := range citations {
		fmt.Fprintf(&b, "- [%s] %s — %s\n", c.Domain, c.Title, c.URL)
	}
	return b.String()
}

// truncate caps s at n bytes on a rune boundary to keep prompts inside token
// budgets.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !strings.HasSuffix(cut, " ") {
		cut = cut[:len(cut)-1]
	}
	if cut == "" {
		cut = s[:n]
	}
	return cut + "…"
}
