package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound requests per target domain so one analysis
// cannot hammer a single evidence host.
type Limiter struct {
	mu           sync.RWMutex
	limiters     map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with the given per-domain rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 3
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the domain of rawURL has rate-limit clearance.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return l.limiterFor(parsed.Host).Wait(ctx)
}

func (l *Limiter) limiterFor(domain string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[domain]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[domain]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[domain] = lim
	return lim
}
