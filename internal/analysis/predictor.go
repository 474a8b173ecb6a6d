package analysis

import "github.com/alanyoungcy/streakwatch/internal/domain"

const (
	maxStreakConfidence   = 85
	shortStreakConfidence = 65
	fallbackConfidence    = 55
)

// Prediction is the proposed next outcome with a confidence percentage.
type Prediction struct {
	Outcome    domain.Outcome
	Confidence int
}

// Predict proposes the next colour. A colour streak of three or more is
// expected to break (predict the other colour, confidence 50+8*len capped at
// 85); a streak of two is expected to continue (confidence 65). Without a
// colour streak the prediction is the colour opposite to the most recent
// outcome at 55. Ties are never predicted.
func Predict(outcomes []domain.Outcome, patterns []domain.Pattern) Prediction {
	if len(outcomes) == 0 {
		return Prediction{}
	}

	if streak, ok := colorStreak(patterns); ok {
		if streak.Length >= 3 {
			return Prediction{
				Outcome:    streak.Color.OtherColor(),
				Confidence: min(maxStreakConfidence, 50+streak.Length*8),
			}
		}
		return Prediction{Outcome: streak.Color, Confidence: shortStreakConfidence}
	}

	return Prediction{
		Outcome:    outcomes[len(outcomes)-1].OtherColor(),
		Confidence: fallbackConfidence,
	}
}

// colorStreak returns the first streak pattern if it is a red or blue streak.
// A tie streak is treated as no streak so that ties are never predicted.
func colorStreak(patterns []domain.Pattern) (domain.Pattern, bool) {
	for _, p := range patterns {
		if p.IsStreak() {
			return p, p.Color.IsColor()
		}
	}
	return domain.Pattern{}, false
}
