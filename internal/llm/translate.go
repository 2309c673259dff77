package llm

import (
	"context"
	"fmt"
	"strings"
)

const detectSystemPrompt = `Identify the language of the user's text. Respond with only the ISO 639-1 code (e.g. "en", "hi", "es"). Nothing else.`

const translateSystemPrompt = `Translate the user's text into the requested language. Respond with only the translation, preserving factual content exactly. Do not add commentary.`

// DetectLanguage returns the ISO 639-1 code for text. Unusable model output
// degrades to "en" so the pipeline proceeds untranslated.
func (c *OpenAIClient) DetectLanguage(ctx context.Context, text string) (string, error) {
	raw, err := c.chat(ctx, TierFlash, detectSystemPrompt, truncate(text, 1000))
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	code := strings.ToLower(strings.Trim(strings.TrimSpace(raw), "\"'`."))
	if len(code) < 2 || len(code) > 3 {
		c.logger.Warn("language detection returned unusable code, assuming English", "raw", raw)
		return "en", nil
	}
	return code, nil
}

// TranslateTo converts text into the target language.
func (c *OpenAIClient) TranslateTo(ctx context.Context, text, lang string) (string, error) {
	user := fmt.Sprintf("Target language: %s\n\n%s", lang, text)
	raw, err := c.chat(ctx, TierFlash, translateSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", lang, err)
	}
	return strings.TrimSpace(raw), nil
}
