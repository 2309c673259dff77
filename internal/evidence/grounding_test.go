package evidence

import (
	"context"
	"testing"

	"github.com/192005chandrakant/credlens/internal/model"
)

func TestClaimKeywords(t *testing.T) {
	claims := []model.Claim{
		{Text: "The vaccine was approved by regulators in 2021."},
		{Text: "It has a 95% efficacy rate!"},
	}

	keywords := claimKeywords(claims)

	for _, want := range []string{"vaccine", "approved", "regulators", "efficacy", "rate"} {
		if !keywords[want] {
			t.Errorf("Expected keyword %q extracted", want)
		}
	}
	for _, unwanted := range []string{"the", "was", "has", "by", "in", "it", "a"} {
		if keywords[unwanted] {
			t.Errorf("Expected stopword/short word %q excluded", unwanted)
		}
	}
	if keywords["2021."] {
		t.Error("Expected punctuation trimmed from keywords")
	}
}

func TestKeywordOverlap(t *testing.T) {
	keywords := map[string]bool{"vaccine": true, "efficacy": true, "approved": true, "regulators": true}

	full := keywordOverlap(keywords, "Vaccine efficacy approved by regulators")
	if full != 1.0 {
		t.Errorf("Expected full overlap 1.0, got %v", full)
	}

	half := keywordOverlap(keywords, "The vaccine efficacy debate continues")
	if half != 0.5 {
		t.Errorf("Expected 0.5 overlap, got %v", half)
	}

	none := keywordOverlap(keywords, "completely unrelated gardening tips")
	if none != 0 {
		t.Errorf("Expected zero overlap, got %v", none)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML(`<p>The claim was <b>rated false</b> by reviewers.</p>`)
	if got != "The claim was rated false by reviewers." {
		t.Errorf("Expected markup flattened, got %q", got)
	}

	plain := stripHTML("already plain text")
	if plain != "already plain text" {
		t.Errorf("Expected plain text unchanged, got %q", plain)
	}
}

func TestGroundingSource_NoFeedsNoKeywords(t *testing.T) {
	empty := NewGroundingSource(nil, "")
	citations, err := empty.Gather(context.Background(), []model.Claim{{Text: "some claim here"}})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 0 {
		t.Errorf("Expected no citations without feeds, got %d", len(citations))
	}

	// All-stopword claims yield no keywords, so feeds are never fetched.
	src := NewGroundingSource([]string{"https://feeds.invalid/rss"}, "")
	citations, err = src.Gather(context.Background(), []model.Claim{{Text: "the and that"}})
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(citations) != 0 {
		t.Errorf("Expected no citations without keywords, got %d", len(citations))
	}
}
