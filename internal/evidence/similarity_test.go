package evidence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/192005chandrakant/credlens/internal/index"
	"github.com/192005chandrakant/credlens/internal/model"
)

// wordEmbedder maps known phrases onto fixed directions.
type wordEmbedder struct{}

func (wordEmbedder) Dimension() int { return 3 }

func (wordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "moon"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "vaccine"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func newPopulatedIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.New(3, nil)
	if err != nil {
		t.Fatalf("index.New failed: %v", err)
	}
	if err := idx.BatchAdd([]index.Entry{
		{ClaimID: "moon-claim", Embedding: []float32{1, 0, 0}, Metadata: index.Metadata{
			Text: "the moon landing was staged", Verdict: "RED", UpdatedAt: time.Now(),
		}},
		{ClaimID: "vaccine-claim", Embedding: []float32{0, 1, 0}, Metadata: index.Metadata{
			Text: "the vaccine contains microchips", SourceURL: "https://example.com/a", UpdatedAt: time.Now(),
		}},
	}); err != nil {
		t.Fatalf("BatchAdd failed: %v", err)
	}
	return idx
}

func TestSimilaritySource_FindsMatchingClaims(t *testing.T) {
	src := NewSimilaritySource(newPopulatedIndex(t), wordEmbedder{}, 3, 0.75)

	citations, err := src.Gather(context.Background(), []model.Claim{
		{ID: "incoming", Text: "fresh claim about the moon"},
	})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("Expected 1 similar claim, got %d", len(citations))
	}

	c := citations[0]
	if c.SourceType != model.SourceSimilarClaim {
		t.Errorf("Expected similar-claim source type, got %s", c.SourceType)
	}
	if !strings.Contains(c.Snippet, "previous verdict: RED") {
		t.Errorf("Expected prior verdict in snippet, got %q", c.Snippet)
	}
	if !strings.HasPrefix(c.URL, "claim://") {
		t.Errorf("Expected claim:// URL for claims without a source page, got %q", c.URL)
	}
	if c.CredibilityWeight < 0.5 || c.CredibilityWeight > 0.7 {
		t.Errorf("Expected credibility in (0.5, 0.7], got %v", c.CredibilityWeight)
	}
}

func TestSimilaritySource_KeepsSourceURL(t *testing.T) {
	src := NewSimilaritySource(newPopulatedIndex(t), wordEmbedder{}, 3, 0.75)

	citations, err := src.Gather(context.Background(), []model.Claim{
		{ID: "incoming", Text: "is the vaccine safe"},
	})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("Expected 1 similar claim, got %d", len(citations))
	}
	if citations[0].URL != "https://example.com/a" {
		t.Errorf("Expected the stored source URL, got %q", citations[0].URL)
	}
}

func TestSimilaritySource_SkipsSelfMatch(t *testing.T) {
	idx := newPopulatedIndex(t)
	src := NewSimilaritySource(idx, wordEmbedder{}, 3, 0.75)

	// The incoming claim is already indexed under the same ID.
	citations, err := src.Gather(context.Background(), []model.Claim{
		{ID: "moon-claim", Text: "the moon landing was staged"},
	})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 0 {
		t.Errorf("Expected the claim's own index entry skipped, got %d citations", len(citations))
	}
}

func TestSimilaritySource_NoMatchBelowThreshold(t *testing.T) {
	src := NewSimilaritySource(newPopulatedIndex(t), wordEmbedder{}, 3, 0.75)

	citations, err := src.Gather(context.Background(), []model.Claim{
		{ID: "incoming", Text: "something entirely different"},
	})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 0 {
		t.Errorf("Expected no citations below the similarity threshold, got %d", len(citations))
	}
}
