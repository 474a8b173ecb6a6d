package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

func TestPredict(t *testing.T) {
	tests := []struct {
		name       string
		window     string
		outcome    domain.Outcome
		confidence int
	}{
		{"streak of two continues", "CCCVV", domain.OutcomeBlue, 65},
		{"streak of three breaks", "VCCC", domain.OutcomeBlue, 74},
		{"streak of four breaks", "CVVVV", domain.OutcomeRed, 82},
		{"long streak capped", "CCCCCCC", domain.OutcomeBlue, 85},
		{"no streak after red", "VC", domain.OutcomeBlue, 55},
		{"no streak after blue", "CV", domain.OutcomeRed, 55},
		{"no streak after tie", "CVE", domain.OutcomeBlue, 55},
		{"tie streak falls back", "CVEE", domain.OutcomeBlue, 55},
		{"long tie streak falls back", "CEEEE", domain.OutcomeBlue, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := seq(t, tt.window)
			got := Predict(w, DetectPatterns(w))
			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestPredict_NeverTie(t *testing.T) {
	codes := []string{"C", "V", "E"}
	// Every window of length 1..5 over the three outcomes.
	var windows []string
	var build func(prefix string, depth int)
	build = func(prefix string, depth int) {
		if prefix != "" {
			windows = append(windows, prefix)
		}
		if depth == 0 {
			return
		}
		for _, c := range codes {
			build(prefix+c, depth-1)
		}
	}
	build("", 5)

	for _, w := range windows {
		o := seq(t, w)
		got := Predict(o, DetectPatterns(o))
		assert.True(t, got.Outcome.IsColor(), "window %s predicted %v", w, got.Outcome)
		assert.GreaterOrEqual(t, got.Confidence, 0)
		assert.LessOrEqual(t, got.Confidence, 100)
	}
}

func TestPredict_EmptyWindow(t *testing.T) {
	got := Predict(nil, nil)
	assert.Equal(t, domain.OutcomeNone, got.Outcome)
	assert.Zero(t, got.Confidence)
}
