package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/worker"
)

// Fetcher retrieves page content for url-type requests. It is rate-limited
// per domain and honors robots.txt unless configured otherwise.
type Fetcher struct {
	httpClient    *http.Client
	userAgent     string
	maxBytes      int64
	limiter       *worker.Limiter
	respectRobots bool

	robotsMu sync.Mutex
	robots   map[string]*robotstxt.RobotsData
}

// NewFetcher creates a fetcher from HTTP configuration.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:     cfg.UserAgent,
		maxBytes:      cfg.MaxBodyBytes,
		limiter:       worker.NewLimiter(rps, 3),
		respectRobots: cfg.RespectRobots,
		robots:        make(map[string]*robotstxt.RobotsData),
	}
}

// FetchResult is the fetched page reduced to analyzable text.
type FetchResult struct {
	Text     string
	FinalURL string
}

// Fetch retrieves the URL and extracts its visible text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: not a fetchable URL: %s", ErrInvalidInput, rawURL)
	}

	if f.respectRobots {
		allowed, err := f.robotsAllow(ctx, parsed)
		if err == nil && !allowed {
			return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
		// A failed robots fetch is treated as allow; the page fetch itself
		// will surface real connectivity problems.
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Text:     ExtractVisibleText(string(body)),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func (f *Fetcher) robotsAllow(ctx context.Context, target *url.URL) (bool, error) {
	data, err := f.robotsFor(ctx, target)
	if err != nil {
		return true, err
	}
	return data.TestAgent(target.Path, f.userAgent), nil
}

func (f *Fetcher) robotsFor(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	f.robotsMu.Lock()
	data, ok := f.robots[target.Host]
	f.robotsMu.Unlock()
	if ok {
		return data, nil
	}

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	f.robotsMu.Lock()
	f.robots[target.Host] = data
	f.robotsMu.Unlock()
	return data, nil
}
