package evidence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/192005chandrakant/credlens/internal/index"
	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
)

// SimilaritySource surfaces previously analyzed claims that resemble the
// current ones, by embedding each claim and searching the vector index.
// A near-duplicate claim that already carries a verdict is strong context.
type SimilaritySource struct {
	idx           *index.Index
	embedder      llm.Embedder
	k             int
	minSimilarity float64
}

// NewSimilaritySource creates the source.
func NewSimilaritySource(idx *index.Index, embedder llm.Embedder, k int, minSimilarity float64) *SimilaritySource {
	if k <= 0 {
		k = 3
	}
	return &SimilaritySource{idx: idx, embedder: embedder, k: k, minSimilarity: minSimilarity}
}

// Name implements Source.
func (s *SimilaritySource) Name() string { return "similar_claims" }

// Gather embeds each claim and collects similar indexed claims as citations.
func (s *SimilaritySource) Gather(ctx context.Context, claims []model.Claim) ([]model.Citation, error) {
	var citations []model.Citation
	for _, claim := range claims {
		vec, err := s.embedder.Embed(ctx, claim.Text)
		if err != nil {
			return nil, fmt.Errorf("embed claim %s: %w", claim.ID, err)
		}
		hits, err := s.idx.Search(vec, s.k, s.minSimilarity)
		if err != nil {
			return nil, fmt.Errorf("search index for claim %s: %w", claim.ID, err)
		}
		for _, hit := range hits {
			// The current request's own claims can already be in the index;
			// matching a claim against itself is not evidence.
			if hit.ClaimID == claim.ID {
				continue
			}
			citations = append(citations, s.toCitation(hit))
		}
	}
	return citations, nil
}

func (s *SimilaritySource) toCitation(hit index.Result) model.Citation {
	sourceURL := hit.Metadata.SourceURL
	domain := "credlens.index"
	if sourceURL == "" {
		sourceURL = "claim://" + hit.ClaimID
	}
	snippet := hit.Metadata.Text
	if hit.Metadata.Verdict != "" {
		snippet = fmt.Sprintf("%s (previous verdict: %s)", hit.Metadata.Text, hit.Metadata.Verdict)
	}
	return model.Citation{
		ID:                uuid.NewString(),
		Title:             "Previously analyzed similar claim",
		URL:               sourceURL,
		Domain:            domain,
		Snippet:           snippet,
		SourceType:        model.SourceSimilarClaim,
		RelevanceScore:    hit.Similarity,
		CredibilityWeight: 0.5 + 0.2*hit.Similarity,
		RecencyWeight:     RecencyWeight(&hit.Metadata.UpdatedAt, time.Now()),
	}
}
