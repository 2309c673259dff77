package score

import "github.com/192005chandrakant/credlens/internal/model"

// Badge score thresholds.
const (
	greenThreshold  = 80
	yellowThreshold = 40
)

// Strong-majority cutoff for the verdict suffix.
const strongRatio = 0.6

// Verdict is the deterministic part of the human-readable outcome. Free-text
// explanation and manipulation techniques come from the model and are passed
// through elsewhere untouched.
type Verdict struct {
	Badge model.Badge
	Text  string
}

// GenerateVerdict maps a scoring result onto a badge and templated verdict
// text.
func GenerateVerdict(result Result, citationCount int) Verdict {
	badge, label := badgeFor(result.Score)

	var suffix string
	switch {
	case citationCount == 0:
		suffix = "insufficient evidence found"
	case result.RefuteRatio > strongRatio:
		suffix = "strong counter-evidence found"
	case result.SupportRatio > strongRatio:
		suffix = "supporting evidence found"
	default:
		suffix = "mixed evidence requires careful evaluation"
	}

	return Verdict{
		Badge: badge,
		Text:  label + ": " + suffix,
	}
}

func badgeFor(score int) (model.Badge, string) {
	switch {
	case score >= greenThreshold:
		return model.BadgeGreen, "Likely accurate"
	case score >= yellowThreshold:
		return model.BadgeYellow, "Needs context"
	default:
		return model.BadgeRed, "Likely misleading"
	}
}
