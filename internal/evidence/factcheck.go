package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/192005chandrakant/credlens/internal/model"
)

// FactCheckSource queries the Google Fact Check Tools claim search API.
// Published fact-checks are the highest-trust evidence the aggregator sees.
type FactCheckSource struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewFactCheckSource creates the source. endpoint defaults to the public
// Fact Check Tools API when empty.
func NewFactCheckSource(endpoint, apiKey string, timeout time.Duration) *FactCheckSource {
	if endpoint == "" {
		endpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FactCheckSource{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Name implements Source.
func (s *FactCheckSource) Name() string { return "fact_check" }

// factCheckResponse mirrors the claims:search response body.
type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Gather searches for fact-checks of each claim. Per-claim query failures
// abort the whole source (the aggregator isolates it); claims beyond the
// first three are skipped to bound API quota per analysis.
func (s *FactCheckSource) Gather(ctx context.Context, claims []model.Claim) ([]model.Citation, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("fact check API key not configured")
	}

	var citations []model.Citation
	for i, claim := range claims {
		if i >= 3 {
			break
		}
		found, err := s.search(ctx, claim.Text)
		if err != nil {
			return nil, fmt.Errorf("fact check search %q: %w", claim.Text, err)
		}
		citations = append(citations, found...)
	}
	return citations, nil
}

func (s *FactCheckSource) search(ctx context.Context, query string) ([]model.Citation, error) {
	reqURL := fmt.Sprintf("%s?query=%s&key=%s&pageSize=5",
		s.endpoint, url.QueryEscape(query), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed factCheckResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	now := s.now()
	var citations []model.Citation
	for _, c := range parsed.Claims {
		for _, review := range c.ClaimReview {
			u, err := url.Parse(review.URL)
			if err != nil || u.Host == "" {
				continue
			}
			var published *time.Time
			if t, err := time.Parse(time.RFC3339, review.ReviewDate); err == nil {
				published = &t
			}
			snippet := review.TextualRating
			if c.Text != "" {
				snippet = fmt.Sprintf("%q rated %s by %s", c.Text, review.TextualRating, review.Publisher.Name)
			}
			citations = append(citations, model.Citation{
				ID:                uuid.NewString(),
				Title:             review.Title,
				URL:               review.URL,
				Domain:            u.Host,
				Snippet:           snippet,
				PublishedAt:       published,
				SourceType:        model.SourceFactCheck,
				RelevanceScore:    0.9,
				CredibilityWeight: 0.9,
				RecencyWeight:     RecencyWeight(published, now),
			})
		}
	}
	return citations, nil
}
