// Package translate defines the language-handling port. Claim extraction
// works best on English text, so non-English content is translated first and
// the original language recorded on the result.
package translate

import "context"

// Translator detects and converts content language.
type Translator interface {
	// DetectLanguage returns the ISO 639-1 code of text's language.
	DetectLanguage(ctx context.Context, text string) (string, error)
	// TranslateTo converts text into the target language.
	TranslateTo(ctx context.Context, text, lang string) (string, error)
}

// Noop assumes English and passes text through unchanged. Used when no
// translator is configured.
type Noop struct{}

// DetectLanguage implements Translator.
func (Noop) DetectLanguage(ctx context.Context, text string) (string, error) {
	return "en", nil
}

// TranslateTo implements Translator.
func (Noop) TranslateTo(ctx context.Context, text, lang string) (string, error) {
	return text, nil
}
