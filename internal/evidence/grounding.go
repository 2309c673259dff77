package evidence

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/192005chandrakant/credlens/internal/model"
)

// GroundingSource searches the recent output of configured fact-check and
// news feeds for items overlapping the claims. It is the "what is being
// written right now" counterweight to the fact-check archive.
type GroundingSource struct {
	feeds  []string
	parser *gofeed.Parser
	now    func() time.Time
}

// NewGroundingSource creates the source over the given feed URLs.
func NewGroundingSource(feeds []string, userAgent string) *GroundingSource {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &GroundingSource{feeds: feeds, parser: parser, now: time.Now}
}

// Name implements Source.
func (s *GroundingSource) Name() string { return "grounding" }

// Gather fetches every feed and keeps items that share enough keywords with
// any claim. A feed that fails to parse fails the whole source; the
// aggregator treats that as zero results.
func (s *GroundingSource) Gather(ctx context.Context, claims []model.Claim) ([]model.Citation, error) {
	if len(s.feeds) == 0 {
		return []model.Citation{}, nil
	}

	keywords := claimKeywords(claims)
	if len(keywords) == 0 {
		return []model.Citation{}, nil
	}

	now := s.now()
	var citations []model.Citation
	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
		}
		for _, item := range feed.Items {
			relevance := keywordOverlap(keywords, item.Title+" "+item.Description)
			if relevance < 0.2 {
				continue
			}
			u, err := url.Parse(item.Link)
			if err != nil || u.Host == "" {
				continue
			}
			citations = append(citations, model.Citation{
				ID:                uuid.NewString(),
				Title:             item.Title,
				URL:               item.Link,
				Domain:            u.Host,
				Snippet:           stripHTML(item.Description),
				PublishedAt:       item.PublishedParsed,
				SourceType:        model.SourceGrounding,
				RelevanceScore:    relevance,
				CredibilityWeight: 0.65,
				RecencyWeight:     RecencyWeight(item.PublishedParsed, now),
			})
		}
	}
	return citations, nil
}

var stopwords = map[string]bool{
	"the": true, "and": true, "that": true, "this": true, "with": true,
	"from": true, "have": true, "has": true, "was": true, "were": true,
	"been": true, "are": true, "for": true, "not": true, "its": true,
	"their": true, "they": true, "will": true, "would": true, "about": true,
}

func claimKeywords(claims []model.Claim) map[string]bool {
	keywords := make(map[string]bool)
	for _, c := range claims {
		for _, w := range strings.Fields(strings.ToLower(c.Text)) {
			w = strings.Trim(w, ".,;:!?\"'()[]")
			if len(w) < 4 || stopwords[w] {
				continue
			}
			keywords[w] = true
		}
	}
	return keywords
}

// keywordOverlap returns the share of claim keywords present in text.
func keywordOverlap(keywords map[string]bool, text string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for w := range keywords {
		if strings.Contains(lower, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// stripHTML flattens feed item markup to plain text; raw input comes back
// unchanged when it does not parse as HTML.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
