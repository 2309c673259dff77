package score

import (
	"strings"
	"testing"

	"github.com/192005chandrakant/credlens/internal/model"
)

func TestGenerateVerdict_BadgeThresholds(t *testing.T) {
	tests := []struct {
		score int
		badge model.Badge
		label string
	}{
		{100, model.BadgeGreen, "Likely accurate"},
		{80, model.BadgeGreen, "Likely accurate"},
		{79, model.BadgeYellow, "Needs context"},
		{40, model.BadgeYellow, "Needs context"},
		{39, model.BadgeRed, "Likely misleading"},
		{0, model.BadgeRed, "Likely misleading"},
	}
	for _, tt := range tests {
		v := GenerateVerdict(Result{Score: tt.score}, 3)
		if v.Badge != tt.badge {
			t.Errorf("Score %d: expected badge %s, got %s", tt.score, tt.badge, v.Badge)
		}
		if !strings.HasPrefix(v.Text, tt.label) {
			t.Errorf("Score %d: expected text to start with %q, got %q", tt.score, tt.label, v.Text)
		}
	}
}

func TestGenerateVerdict_NoEvidenceSuffix(t *testing.T) {
	v := GenerateVerdict(Result{Score: 45}, 0)
	if !strings.Contains(v.Text, "insufficient evidence") {
		t.Errorf("Expected insufficient-evidence suffix, got %q", v.Text)
	}
}

func TestGenerateVerdict_StrongSupportSuffix(t *testing.T) {
	v := GenerateVerdict(Result{Score: 90, SupportRatio: 0.85}, 4)
	if !strings.Contains(v.Text, "supporting evidence found") {
		t.Errorf("Expected supporting-evidence suffix, got %q", v.Text)
	}
}

func TestGenerateVerdict_StrongRefuteSuffix(t *testing.T) {
	v := GenerateVerdict(Result{Score: 20, RefuteRatio: 0.8}, 4)
	if !strings.Contains(v.Text, "counter-evidence") {
		t.Errorf("Expected counter-evidence suffix, got %q", v.Text)
	}
}

func TestGenerateVerdict_MixedEvidenceSuffix(t *testing.T) {
	v := GenerateVerdict(Result{Score: 55, SupportRatio: 0.5, RefuteRatio: 0.4}, 4)
	if !strings.Contains(v.Text, "mixed evidence") {
		t.Errorf("Expected mixed-evidence suffix, got %q", v.Text)
	}
}
