// Package evidence gathers citations for claims from several independent
// sources. Sources run concurrently, each behind its own timeout and error
// boundary; a broken source degrades to zero citations and never aborts the
// others. The aggregator itself never returns an error — downstream scoring
// handles the zero-evidence case explicitly.
package evidence

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Source is one independent evidence provider.
type Source interface {
	Name() string
	Gather(ctx context.Context, claims []model.Claim) ([]model.Citation, error)
}

// Aggregator fans out to all configured sources, then deduplicates and ranks
// the combined citation list.
type Aggregator struct {
	sources       []Source
	fallback      Source // higher-cost source, only consulted on the trigger below
	topK          int
	minCitations  int
	sourceTimeout time.Duration
	logger        *slog.Logger
}

// NewAggregator creates an aggregator over the given primary sources.
// fallback may be nil.
func NewAggregator(sources []Source, fallback Source, cfg model.EvidenceConfig, logger *slog.Logger) *Aggregator {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	minCitations := cfg.MinCitations
	if minCitations <= 0 {
		minCitations = 2
	}
	timeout := cfg.SourceTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		sources:       sources,
		fallback:      fallback,
		topK:          topK,
		minCitations:  minCitations,
		sourceTimeout: timeout,
		logger:        logger,
	}
}

type sourceOutcome struct {
	name      string
	citations []model.Citation
	err       error
}

// Gather queries every source concurrently and returns the ranked, deduplicated
// top-K citations. All-sources-failure yields an empty list, never an error.
func (a *Aggregator) Gather(ctx context.Context, claims []model.Claim) []model.Citation {
	if len(claims) == 0 {
		return []model.Citation{}
	}

	outcomes := a.fanOut(ctx, a.sources, claims)

	var citations []model.Citation
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			a.logger.Warn("evidence source failed, treating as zero results",
				"source", o.name, "err", o.err)
			continue
		}
		citations = append(citations, o.citations...)
	}

	// Fallback over-triggers on purpose: one likely-redundant LLM call is
	// cheaper than an analysis with no evidence at all.
	if a.fallback != nil && (failed > 0 || len(citations) < a.minCitations) {
		fb := a.fanOut(ctx, []Source{a.fallback}, claims)
		for _, o := range fb {
			if o.err != nil {
				a.logger.Warn("fallback evidence source failed", "source", o.name, "err", o.err)
				continue
			}
			citations = append(citations, o.citations...)
		}
	}

	citations = Dedupe(citations)
	rank(citations)
	if len(citations) > a.topK {
		citations = citations[:a.topK]
	}
	return citations
}

func (a *Aggregator) fanOut(ctx context.Context, sources []Source, claims []model.Claim) []sourceOutcome {
	outcomes := make([]sourceOutcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			srcCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()
			citations, err := s.Gather(srcCtx, claims)
			outcomes[idx] = sourceOutcome{name: s.Name(), citations: citations, err: err}
		}(i, src)
	}
	wg.Wait()
	return outcomes
}

// Dedupe removes citations sharing a (domain, url) key, keeping the one with
// the higher credibility weight.
func Dedupe(citations []model.Citation) []model.Citation {
	best := make(map[string]model.Citation, len(citations))
	order := make([]string, 0, len(citations))
	for _, c := range citations {
		key := c.Key()
		existing, seen := best[key]
		if !seen {
			best[key] = c
			order = append(order, key)
			continue
		}
		if c.CredibilityWeight > existing.CredibilityWeight {
			best[key] = c
		}
	}
	out := make([]model.Citation, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// rank sorts by credibility weight then relevance score, both descending.
func rank(citations []model.Citation) {
	sort.SliceStable(citations, func(i, j int) bool {
		if citations[i].CredibilityWeight != citations[j].CredibilityWeight {
			return citations[i].CredibilityWeight > citations[j].CredibilityWeight
		}
		return citations[i].RelevanceScore > citations[j].RelevanceScore
	})
}

// RecencyWeight maps a publication time onto [0,1]; unknown dates get the
// neutral middle.
func RecencyWeight(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return 0.5
	}
	age := now.Sub(*publishedAt)
	switch {
	case age < 30*24*time.Hour:
		return 1.0
	case age < 180*24*time.Hour:
		return 0.8
	case age < 365*24*time.Hour:
		return 0.6
	default:
		return 0.4
	}
}
