// Package schedule runs the periodic jobs of watch mode: index snapshots,
// cache sweeps, and fact-check feed polling.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"

	"github.com/192005chandrakant/credlens/internal/cache"
	"github.com/192005chandrakant/credlens/internal/index"
	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/worker"
)

// Maintenance owns the cron scheduler for a long-running process.
type Maintenance struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Maintenance {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintenance{cron: cron.New(), logger: logger}
}

// Start begins running registered jobs.
func (m *Maintenance) Start() { m.cron.Start() }

// Stop stops the scheduler and waits for running jobs.
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// AddIndexSnapshot saves the index to its store on the given cron spec.
func (m *Maintenance) AddIndexSnapshot(spec string, idx *index.Index, store *index.Store) error {
	_, err := m.cron.AddFunc(spec, func() {
		if err := store.Save(idx); err != nil {
			m.logger.Error("index snapshot failed", "err", err)
			return
		}
		m.logger.Info("index snapshot saved", "entries", idx.Len())
	})
	if err != nil {
		return fmt.Errorf("schedule index snapshot: %w", err)
	}
	return nil
}

// AddCacheSweep drops expired cache entries on the given cron spec.
func (m *Maintenance) AddCacheSweep(spec string, c *cache.AnalysisCache) error {
	_, err := m.cron.AddFunc(spec, func() {
		before := c.Len()
		c.Sweep()
		m.logger.Info("cache sweep complete", "before", before, "after", c.Len())
	})
	if err != nil {
		return fmt.Errorf("schedule cache sweep: %w", err)
	}
	return nil
}

// FeedWatcher polls fact-check feeds and runs new items through the analyzer.
type FeedWatcher struct {
	feeds    []string
	parser   *gofeed.Parser
	analyzer worker.Analyzer
	onResult func(model.AnalyzeRequest, *model.AnalysisResult)
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// NewFeedWatcher creates a watcher. onResult may be nil.
func NewFeedWatcher(feeds []string, analyzer worker.Analyzer, onResult func(model.AnalyzeRequest, *model.AnalysisResult), logger *slog.Logger) *FeedWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedWatcher{
		feeds:    feeds,
		parser:   gofeed.NewParser(),
		analyzer: analyzer,
		onResult: onResult,
		logger:   logger,
		seen:     make(map[string]bool),
	}
}

// AddTo registers the watcher's poll on the scheduler.
func (w *FeedWatcher) AddTo(m *Maintenance, spec string) error {
	_, err := m.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		w.Poll(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule feed watch: %w", err)
	}
	return nil
}

// Poll fetches every feed once and analyzes items not seen before.
func (w *FeedWatcher) Poll(ctx context.Context) {
	for _, feedURL := range w.feeds {
		feed, err := w.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			w.logger.Warn("feed poll failed", "feed", feedURL, "err", err)
			continue
		}
		for _, item := range feed.Items {
			if !w.markSeen(itemKey(feedURL, item)) {
				continue
			}
			req := model.AnalyzeRequest{
				Content:     item.Title + " " + item.Description,
				ContentType: model.ContentTypeText,
			}
			result, err := w.analyzer.Analyze(ctx, req)
			if err != nil {
				w.logger.Warn("feed item analysis failed", "feed", feedURL, "title", item.Title, "err", err)
				continue
			}
			w.logger.Info("feed item analyzed", "title", item.Title,
				"score", result.Score, "badge", result.Badge)
			if w.onResult != nil {
				w.onResult(req, result)
			}
		}
	}
}

// markSeen records key and reports whether it was new.
func (w *FeedWatcher) markSeen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[key] {
		return false
	}
	w.seen[key] = true
	return true
}

func itemKey(feedURL string, item *gofeed.Item) string {
	if item.GUID != "" {
		return feedURL + "#" + item.GUID
	}
	return feedURL + "#" + item.Link
}
