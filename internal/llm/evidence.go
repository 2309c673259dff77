package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/192005chandrakant/credlens/internal/model"
)

// EvidenceSuggester is the higher-cost fallback evidence capability: ask the
// model for published fact-checks and coverage it knows about.
type EvidenceSuggester interface {
	SuggestEvidence(ctx context.Context, claims []model.Claim) ([]model.Citation, error)
}

const evidenceSystemPrompt = `You recall published fact-checks and reporting relevant to claims. Respond with JSON only:
{"citations": [{"title": "...", "url": "https://...", "snippet": "...", "relevance": 0.0}]}
Rules:
- Only include sources you are confident actually exist, with their real URLs.
- "snippet" is one sentence on what the source says about the claim.
- "relevance" is between 0 and 1.
- At most 5 citations. An empty list is a valid answer.`

type evidenceResponse struct {
	Citations []struct {
		Title     string  `json:"title"`
		URL       string  `json:"url"`
		Snippet   string  `json:"snippet"`
		Relevance float64 `json:"relevance"`
	} `json:"citations"`
}

// SuggestEvidence asks the model for known published evidence. Malformed
// output and citations without a parseable URL degrade to fewer (or zero)
// citations; model-recalled sources carry a deliberately low credibility
// weight since they are unverified.
func (c *OpenAIClient) SuggestEvidence(ctx context.Context, claims []model.Claim) ([]model.Citation, error) {
	var b strings.Builder
	b.WriteString("Claims needing evidence:\n")
	for _, cl := range claims {
		fmt.Fprintf(&b, "- %s\n", cl.Text)
	}

	raw, err := c.chat(ctx, TierFlash, evidenceSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("suggest evidence: %w", err)
	}

	var resp evidenceResponse
	if err := unmarshalModelJSON(raw, &resp); err != nil {
		c.logger.Warn("evidence suggestion returned malformed output, failing closed to zero citations", "err", err)
		return []model.Citation{}, nil
	}

	citations := make([]model.Citation, 0, len(resp.Citations))
	for _, sc := range resp.Citations {
		u, err := url.Parse(strings.TrimSpace(sc.URL))
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		citations = append(citations, model.Citation{
			ID:                uuid.NewString(),
			Title:             strings.TrimSpace(sc.Title),
			URL:               u.String(),
			Domain:            u.Host,
			Snippet:           strings.TrimSpace(sc.Snippet),
			SourceType:        model.SourceLLMFallback,
			RelevanceScore:    clamp01(sc.Relevance),
			CredibilityWeight: 0.4,
			RecencyWeight:     0.5,
		})
	}
	return citations, nil
}
