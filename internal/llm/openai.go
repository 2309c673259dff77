package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/192005chandrakant/credlens/internal/model"
)

// OpenAIClient implements Client and Embedder over the OpenAI-compatible chat
// and embeddings APIs. The flash and pro tiers map to two model names from
// configuration.
type OpenAIClient struct {
	client *openai.Client
	cfg    model.LLMConfig
	dim    int
	logger *slog.Logger
}

// NewOpenAIClient creates a tiered client. dim is the embedding dimension the
// configured embedding model produces.
func NewOpenAIClient(cfg model.LLMConfig, dim int, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		dim:    dim,
		logger: logger,
	}, nil
}

// ExtractClaims extracts atomic assertions from content. Unparseable model
// output is logged and degrades to zero claims.
func (c *OpenAIClient) ExtractClaims(ctx context.Context, content, language string, tier Tier) ([]model.Claim, error) {
	raw, err := c.chat(ctx, tier, claimSystemPrompt, buildClaimPrompt(content, language))
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	claims, err := parseClaims(raw)
	if err != nil {
		c.logger.Warn("claim extraction returned malformed output, failing closed to zero claims",
			"tier", tier, "err", err)
		return []model.Claim{}, nil
	}
	return claims, nil
}

// JudgeStance classifies the citations' relationship to one claim.
// Unparseable output degrades to the default NEEDS_CONTEXT judgement.
func (c *OpenAIClient) JudgeStance(ctx context.Context, claim model.Claim, citations []model.Citation, tier Tier) (model.StanceJudgement, error) {
	if len(citations) == 0 {
		return DefaultJudgement(claim.ID), nil
	}
	raw, err := c.chat(ctx, tier, stanceSystemPrompt, buildStancePrompt(claim, citations))
	if err != nil {
		return model.StanceJudgement{}, fmt.Errorf("judge stance: %w", err)
	}
	judgement, err := parseStance(raw, claim.ID, citations)
	if err != nil {
		c.logger.Warn("stance judgement returned malformed output, failing closed to NEEDS_CONTEXT",
			"claim_id", claim.ID, "tier", tier, "err", err)
		return DefaultJudgement(claim.ID), nil
	}
	return judgement, nil
}

// GenerateVerdict produces the narrative verdict parts. Unparseable output
// degrades to an empty explanation; the deterministic verdict still stands.
func (c *OpenAIClient) GenerateVerdict(ctx context.Context, claims []model.Claim, judgements []model.StanceJudgement, citations []model.Citation, tier Tier) (VerdictExplanation, error) {
	raw, err := c.chat(ctx, tier, verdictSystemPrompt, buildVerdictPrompt(claims, judgements, citations))
	if err != nil {
		return VerdictExplanation{}, fmt.Errorf("generate verdict: %w", err)
	}
	verdict, err := parseVerdict(raw)
	if err != nil {
		c.logger.Warn("verdict generation returned malformed output, failing closed to empty explanation",
			"tier", tier, "err", err)
		return VerdictExplanation{}, nil
	}
	return verdict, nil
}

// Embed returns the embedding vector for text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embed: empty response")
	}
	return resp.Data[0].Embedding, nil
}

// Dimension returns the embedding dimension.
func (c *OpenAIClient) Dimension() int { return c.dim }

func (c *OpenAIClient) modelFor(tier Tier) string {
	if tier == TierPro {
		return c.cfg.ProModel
	}
	return c.cfg.FlashModel
}

func (c *OpenAIClient) chat(ctx context.Context, tier Tier, system, user string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	maxTokens := c.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1200
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelFor(tier),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2, // low temperature for consistent structured output
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", c.modelFor(tier), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
