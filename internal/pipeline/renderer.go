package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/192005chandrakant/credlens/internal/model"
)

// Renderer writes analysis results as JSON, Markdown, and a console summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON to path.
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a readable report to path.
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Credibility Report\n\n")
	fmt.Fprintf(&b, "**Verdict:** %s %s\n\n", badgeEmoji(result.Badge), result.VerdictText)
	fmt.Fprintf(&b, "**Score:** %d/100 (confidence %.2f–%.2f)\n\n",
		result.Score, result.ConfidenceBand.Low, result.ConfidenceBand.High)
	if result.ModelEscalated {
		fmt.Fprintf(&b, "_Analysis escalated to the %s tier._\n\n", result.ModelTier)
	}

	if result.Explanation != "" {
		fmt.Fprintf(&b, "%s\n\n", result.Explanation)
	}

	if len(result.Claims) > 0 {
		fmt.Fprintf(&b, "## Claims (%d)\n\n", len(result.Claims))
		stanceByClaim := make(map[string]model.Stance, len(result.StanceJudgements))
		for _, j := range result.StanceJudgements {
			stanceByClaim[j.ClaimID] = j.Stance
		}
		for _, c := range result.Claims {
			fmt.Fprintf(&b, "- %s — `%s`\n", c.Text, stanceByClaim[c.ID])
		}
		b.WriteString("\n")
	}

	if len(result.Citations) > 0 {
		fmt.Fprintf(&b, "## Evidence (%d)\n\n", len(result.Citations))
		for _, c := range result.Citations {
			fmt.Fprintf(&b, "- [%s](%s) (%s, credibility %.2f)\n", c.Title, c.URL, c.Domain, c.CredibilityWeight)
		}
		b.WriteString("\n")
	}

	if len(result.Manipulation) > 0 {
		fmt.Fprintf(&b, "## Manipulation techniques\n\n")
		for _, m := range result.Manipulation {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}

	if result.LearnCard != "" {
		fmt.Fprintf(&b, "## Learn\n\n%s\n\n", result.LearnCard)
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by credlens. Scores describe evidence support, not truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen summary.
func (r *Renderer) RenderSummary(w io.Writer, result *model.AnalysisResult) {
	fmt.Fprintf(w, "\n%s %s\n", badgeEmoji(result.Badge), result.VerdictText)
	fmt.Fprintf(w, "Score: %d/100  Claims: %d  Citations: %d  Cache: %v  Escalated: %v\n",
		result.Score, len(result.Claims), len(result.Citations), result.CacheHit, result.ModelEscalated)
	if result.Explanation != "" {
		fmt.Fprintf(w, "\n%s\n", result.Explanation)
	}
}

func badgeEmoji(badge model.Badge) string {
	switch badge {
	case model.BadgeGreen:
		return "🟢"
	case model.BadgeYellow:
		return "🟡"
	default:
		return "🔴"
	}
}
