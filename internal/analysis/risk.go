package analysis

import "github.com/alanyoungcy/streakwatch/internal/domain"

// RiskScore scores the window: up to 40 points for the longest run anywhere
// in it, plus 30 when it ends on two or more ties.
func RiskScore(outcomes []domain.Outcome) int {
	if len(outcomes) == 0 {
		return 0
	}

	score := 0
	switch longest := longestRun(outcomes); {
	case longest >= 5:
		score += 40
	case longest >= 4:
		score += 25
	case longest >= 3:
		score += 10
	}

	if trailingTies(outcomes) >= 2 {
		score += 30
	}
	return score
}

// AssessRisk maps RiskScore onto a level: >=50 high, >=25 medium, else low.
func AssessRisk(outcomes []domain.Outcome) domain.RiskLevel {
	score := RiskScore(outcomes)
	switch {
	case score >= 50:
		return domain.RiskHigh
	case score >= 25:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func longestRun(outcomes []domain.Outcome) int {
	longest, current := 1, 1
	for i := 1; i < len(outcomes); i++ {
		if outcomes[i] == outcomes[i-1] {
			current++
			longest = max(longest, current)
		} else {
			current = 1
		}
	}
	return longest
}

func trailingTies(outcomes []domain.Outcome) int {
	n := 0
	for i := len(outcomes) - 1; i >= 0 && outcomes[i] == domain.OutcomeTie; i-- {
		n++
	}
	return n
}
