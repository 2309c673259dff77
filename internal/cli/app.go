package cli

import (
	"fmt"
	"log/slog"

	"github.com/192005chandrakant/credlens/internal/cache"
	"github.com/192005chandrakant/credlens/internal/evidence"
	"github.com/192005chandrakant/credlens/internal/index"
	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/pipeline"
	"github.com/192005chandrakant/credlens/internal/storage"
)

// app bundles the assembled pipeline with the stateful pieces commands need
// to manage directly (index persistence, cache hooks).
type app struct {
	cfg      *model.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	index    *index.Index
	idxStore *index.Store
	cache    *cache.AnalysisCache
	store    *storage.Store
}

// buildApp wires every component from configuration. The caller must invoke
// close when done.
func buildApp(cfg *model.Config) (*app, error) {
	logger := newLogger()

	llmClient, err := llm.NewOpenAIClient(cfg.LLM, cfg.Index.Dimension, logger)
	if err != nil {
		return nil, fmt.Errorf("init LLM client: %w", err)
	}

	idxStore, err := index.OpenStore(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("open index store: %w", err)
	}
	idx, err := idxStore.Load(cfg.Index.Dimension, logger)
	if err != nil {
		idxStore.Close()
		return nil, fmt.Errorf("load index: %w", err)
	}

	var sources []evidence.Source
	if cfg.Evidence.FactCheckAPIKey != "" {
		sources = append(sources, evidence.NewFactCheckSource(
			cfg.Evidence.FactCheckEndpoint, cfg.Evidence.FactCheckAPIKey, cfg.Evidence.SourceTimeout))
	}
	sources = append(sources, evidence.NewSimilaritySource(
		idx, llmClient, cfg.Evidence.SimilarK, cfg.Evidence.MinSimilarity))
	if len(cfg.Evidence.GroundingFeeds) > 0 {
		sources = append(sources, evidence.NewGroundingSource(cfg.Evidence.GroundingFeeds, cfg.HTTP.UserAgent))
	}
	aggregator := evidence.NewAggregator(sources, evidence.NewLLMFallbackSource(llmClient), cfg.Evidence, logger)

	var resultCache *cache.AnalysisCache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cfg.Cache.TTL)
	}

	var store *storage.Store
	if cfg.Storage.Enabled {
		store, err = storage.Open(cfg.Storage.Path, logger)
		if err != nil {
			idxStore.Close()
			return nil, fmt.Errorf("open result store: %w", err)
		}
	}

	p, err := pipeline.New(cfg, pipeline.Deps{
		LLM:        llmClient,
		Embedder:   llmClient,
		Translator: llmClient,
		Aggregator: aggregator,
		Index:      idx,
		Cache:      resultCache,
		Store:      store,
		Fetcher:    pipeline.NewFetcher(cfg.HTTP),
		Logger:     logger,
	})
	if err != nil {
		idxStore.Close()
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: p,
		index:    idx,
		idxStore: idxStore,
		cache:    resultCache,
		store:    store,
	}, nil
}

// close snapshots the index and releases resources.
func (a *app) close() {
	if err := a.idxStore.Save(a.index); err != nil {
		a.logger.Error("final index snapshot failed", "err", err)
	}
	if err := a.idxStore.Close(); err != nil {
		a.logger.Warn("close index store", "err", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close result store", "err", err)
		}
	}
}
