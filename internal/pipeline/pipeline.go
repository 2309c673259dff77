// Package pipeline orchestrates the misinformation analysis stages: claim
// extraction, evidence retrieval, stance analysis, risk scoring, verdict
// generation, caching, and model-tier escalation. Stages are strictly ordered
// within a request; each external stage degrades to a partial result rather
// than aborting the analysis, so the pipeline always returns some verdict
// unless the input itself is malformed or the request is cancelled.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/192005chandrakant/credlens/internal/cache"
	"github.com/192005chandrakant/credlens/internal/escalate"
	"github.com/192005chandrakant/credlens/internal/evidence"
	"github.com/192005chandrakant/credlens/internal/index"
	"github.com/192005chandrakant/credlens/internal/llm"
	"github.com/192005chandrakant/credlens/internal/model"
	"github.com/192005chandrakant/credlens/internal/score"
	"github.com/192005chandrakant/credlens/internal/stance"
	"github.com/192005chandrakant/credlens/internal/storage"
	"github.com/192005chandrakant/credlens/internal/translate"
)

// ErrInvalidInput marks malformed requests, rejected before any pipeline
// stage runs.
var ErrInvalidInput = errors.New("invalid input")

// Deps are the pipeline's collaborators. LLM and Embedder are required;
// everything else may be nil and the corresponding stage degrades or is
// skipped.
type Deps struct {
	LLM        llm.Client
	Embedder   llm.Embedder
	Translator translate.Translator
	Aggregator *evidence.Aggregator
	Index      *index.Index
	Cache      *cache.AnalysisCache
	Store      *storage.Store
	Fetcher    *Fetcher
	Logger     *slog.Logger
}

// Pipeline is the analysis orchestrator.
type Pipeline struct {
	cfg        *model.Config
	llm        llm.Client
	embedder   llm.Embedder
	translator translate.Translator
	aggregator *evidence.Aggregator
	idx        *index.Index
	cache      *cache.AnalysisCache
	store      *storage.Store
	fetcher    *Fetcher
	stances    *stance.Scorer
	risk       *score.RiskScorer
	thresholds escalate.Thresholds
	logger     *slog.Logger
	now        func() time.Time
}

// New assembles a pipeline from configuration and collaborators.
func New(cfg *model.Config, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if deps.LLM == nil {
		return nil, fmt.Errorf("pipeline requires an LLM client")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	translator := deps.Translator
	if translator == nil {
		translator = translate.Noop{}
	}

	return &Pipeline{
		cfg:        cfg,
		llm:        deps.LLM,
		embedder:   deps.Embedder,
		translator: translator,
		aggregator: deps.Aggregator,
		idx:        deps.Index,
		cache:      deps.Cache,
		store:      deps.Store,
		fetcher:    deps.Fetcher,
		stances:    stance.NewScorer(deps.LLM, logger),
		risk:       score.NewRiskScorer(score.ParamsFromConfig(cfg.Scoring)),
		thresholds: escalate.FromConfig(cfg.Escalation),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Analyze runs the full pipeline for one request. Identical inputs inside the
// cache TTL return the cached result without re-running any stage.
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	key := cache.Key(req.Content, req.ContentType)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			return &cached, nil
		}
	}

	started := p.now()
	contentID := uuid.NewString()

	text, sourceURL, err := p.resolveContent(ctx, req)
	if err != nil {
		return nil, err
	}

	text, language := p.normalizeLanguage(ctx, text, req.LanguageHint)

	// First pass on the cheap tier.
	tier := llm.TierFlash
	claims := p.extractClaims(ctx, text, language, tier)
	citations := p.gatherEvidence(ctx, claims)
	judgements := p.stances.Score(ctx, claims, citations, tier)

	escalated := escalate.Decide(claims, judgements, req.ForceHighTier, p.thresholds)
	if escalated {
		tier = llm.TierPro
		p.logger.Info("escalating to high-capability tier", "content_id", contentID,
			"claims", len(claims), "forced", req.ForceHighTier)
		if proClaims := p.extractClaims(ctx, text, language, tier); len(proClaims) > 0 {
			claims = proClaims
		}
		judgements = p.stances.Score(ctx, claims, citations, tier)
	}

	scored := p.risk.Score(claims, citations, judgements)
	verdict := score.GenerateVerdict(scored, len(citations))
	explanation := p.explainVerdict(ctx, claims, judgements, citations, tier)

	result := &model.AnalysisResult{
		ContentID:        contentID,
		Language:         language,
		ModelTier:        string(tier),
		Claims:           claims,
		Citations:        citations,
		StanceJudgements: judgements,
		Distribution:     stance.Distribution(judgements),
		Score:            scored.Score,
		Badge:            verdict.Badge,
		VerdictText:      verdict.Text,
		Explanation:      explanation.Explanation,
		ConfidenceBand:   scored.Band,
		Manipulation:     explanation.Manipulation,
		LearnCard:        explanation.LearnCard,
		ProcessingTimeMS: p.now().Sub(started).Milliseconds(),
		ModelEscalated:   escalated,
		CreatedAt:        p.now().UTC(),
	}

	// A cancelled request must not leave a partial result in the cache or
	// the claim index.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.indexClaims(ctx, claims, language, sourceURL, verdict)
	if p.cache != nil {
		p.cache.Put(key, *result)
	}
	if p.store != nil {
		p.store.PersistAsync(*result)
	}
	return result, nil
}

func validate(req model.AnalyzeRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidInput)
	}
	if !req.ContentType.Valid() {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, req.ContentType)
	}
	return nil
}

// resolveContent turns the request into analyzable text. url requests are
// fetched and reduced to visible text; text and image requests carry their
// text directly (image OCR happens upstream).
func (p *Pipeline) resolveContent(ctx context.Context, req model.AnalyzeRequest) (text, sourceURL string, err error) {
	if req.ContentType != model.ContentTypeURL {
		return req.Content, "", nil
	}
	if p.fetcher == nil {
		return "", "", fmt.Errorf("%w: url analysis requires a fetcher", ErrInvalidInput)
	}
	fetched, err := p.fetcher.Fetch(ctx, req.Content)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return "", "", err
		}
		return "", "", fmt.Errorf("fetch content: %w", err)
	}
	if strings.TrimSpace(fetched.Text) == "" {
		return "", "", fmt.Errorf("%w: page at %s has no analyzable text", ErrInvalidInput, req.Content)
	}
	return fetched.Text, fetched.FinalURL, nil
}

// normalizeLanguage detects the content language (unless hinted) and
// translates non-English content for extraction. Failures degrade to the
// original text.
func (p *Pipeline) normalizeLanguage(ctx context.Context, text, hint string) (string, string) {
	language := hint
	if language == "" {
		detected, err := p.translator.DetectLanguage(ctx, text)
		if err != nil {
			p.logger.Warn("language detection failed, assuming English", "err", err)
			return text, "en"
		}
		language = detected
	}
	if language == "en" {
		return text, language
	}

	translated, err := p.translator.TranslateTo(ctx, text, "en")
	if err != nil {
		p.logger.Warn("translation failed, analyzing original text", "language", language, "err", err)
		return text, language
	}
	return translated, language
}

func (p *Pipeline) extractClaims(ctx context.Context, text, language string, tier llm.Tier) []model.Claim {
	claims, err := p.llm.ExtractClaims(ctx, text, language, tier)
	if err != nil {
		p.logger.Warn("claim extraction failed, continuing with zero claims", "tier", tier, "err", err)
		return []model.Claim{}
	}
	return claims
}

func (p *Pipeline) gatherEvidence(ctx context.Context, claims []model.Claim) []model.Citation {
	if p.aggregator == nil || len(claims) == 0 {
		return []model.Citation{}
	}
	return p.aggregator.Gather(ctx, claims)
}

func (p *Pipeline) explainVerdict(ctx context.Context, claims []model.Claim, judgements []model.StanceJudgement, citations []model.Citation, tier llm.Tier) llm.VerdictExplanation {
	explanation, err := p.llm.GenerateVerdict(ctx, claims, judgements, citations, tier)
	if err != nil {
		p.logger.Warn("verdict explanation failed, returning deterministic verdict only", "err", err)
		return llm.VerdictExplanation{}
	}
	return explanation
}

// indexClaims embeds the analyzed claims and adds them to the similarity
// index in one batch, so future analyses can surface them as evidence.
func (p *Pipeline) indexClaims(ctx context.Context, claims []model.Claim, language, sourceURL string, verdict score.Verdict) {
	if p.idx == nil || p.embedder == nil || len(claims) == 0 {
		return
	}

	entries := make([]index.Entry, 0, len(claims))
	now := p.now().UTC()
	for _, claim := range claims {
		vec, err := p.embedder.Embed(ctx, claim.Text)
		if err != nil {
			p.logger.Warn("claim embedding failed, skipping index insert", "claim_id", claim.ID, "err", err)
			continue
		}
		entries = append(entries, index.Entry{
			ClaimID:   claim.ID,
			Embedding: vec,
			Metadata: index.Metadata{
				Text:      claim.Text,
				Language:  language,
				SourceURL: sourceURL,
				Verdict:   string(verdict.Badge),
				UpdatedAt: now,
			},
		})
	}
	if len(entries) == 0 {
		return
	}
	if err := p.idx.BatchAdd(entries); err != nil {
		p.logger.Warn("claim indexing failed", "err", err)
	}
}
