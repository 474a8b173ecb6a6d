package analysis

import "github.com/alanyoungcy/streakwatch/internal/domain"

// tieRatioThreshold is the tie share above which the window looks rigged.
const tieRatioThreshold = 0.25

// ManipulationScore adds 30 when more than a quarter of the window are ties
// and 25 when the last six outcomes are two uniform halves of different
// values (e.g. R,R,R,B,B,B).
func ManipulationScore(outcomes []domain.Outcome) int {
	if len(outcomes) == 0 {
		return 0
	}

	score := 0

	ties := 0
	for _, o := range outcomes {
		if o == domain.OutcomeTie {
			ties++
		}
	}
	if float64(ties)/float64(len(outcomes)) > tieRatioThreshold {
		score += 30
	}

	if len(outcomes) >= 6 {
		recent := outcomes[len(outcomes)-6:]
		first, second := recent[:3], recent[3:]
		if uniform(first) && uniform(second) && first[0] != second[0] {
			score += 25
		}
	}

	return score
}

// DetectManipulation maps ManipulationScore onto a level: >=40 high, >=20
// medium, else low. It never returns ManipulationNone.
func DetectManipulation(outcomes []domain.Outcome) domain.ManipulationLevel {
	score := ManipulationScore(outcomes)
	switch {
	case score >= 40:
		return domain.ManipulationHigh
	case score >= 20:
		return domain.ManipulationMedium
	default:
		return domain.ManipulationLow
	}
}

func uniform(outcomes []domain.Outcome) bool {
	for _, o := range outcomes[1:] {
		if o != outcomes[0] {
			return false
		}
	}
	return true
}
