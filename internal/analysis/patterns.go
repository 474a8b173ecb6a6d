package analysis

import (
	"fmt"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

// DetectPatterns scans the window (oldest first) and returns every pattern
// that applies, in the order streak, alternating, 2x2. The result is never
// nil.
func DetectPatterns(outcomes []domain.Outcome) []domain.Pattern {
	patterns := []domain.Pattern{}
	if len(outcomes) == 0 {
		return patterns
	}

	if color, length := trailingStreak(outcomes); length >= 2 {
		patterns = append(patterns, domain.Pattern{
			Kind:        domain.PatternStreak,
			Color:       color,
			Length:      length,
			Description: fmt.Sprintf("%dx %s in a row", length, color.Label()),
		})
	}

	if isAlternating(outcomes) {
		patterns = append(patterns, domain.Pattern{
			Kind:        domain.PatternAlternating,
			Description: "Alternating pattern detected",
		})
	}

	if isTwoByTwo(outcomes) {
		patterns = append(patterns, domain.Pattern{
			Kind:        domain.PatternTwoByTwo,
			Description: "2x2 pattern detected",
		})
	}

	return patterns
}

// trailingStreak counts how many outcomes at the end of the window equal the
// most recent one.
func trailingStreak(outcomes []domain.Outcome) (domain.Outcome, int) {
	last := outcomes[len(outcomes)-1]
	length := 1
	for i := len(outcomes) - 2; i >= 0; i-- {
		if outcomes[i] != last {
			break
		}
		length++
	}
	return last, length
}

// isAlternating walks the last four outcomes backwards and requires each of
// the three adjacent pairs (-1,-2), (-2,-3), (-3,-4) to differ. A tie counts
// as a distinct value, so R,B,R,E passes.
func isAlternating(outcomes []domain.Outcome) bool {
	n := len(outcomes)
	if n < 4 {
		return false
	}
	for k := 1; k <= 3; k++ {
		if outcomes[n-k] == outcomes[n-k-1] {
			return false
		}
	}
	return true
}

// isTwoByTwo reports whether the last four outcomes are a,a,b,b with a != b.
func isTwoByTwo(outcomes []domain.Outcome) bool {
	n := len(outcomes)
	if n < 4 {
		return false
	}
	last4 := outcomes[n-4:]
	return last4[0] == last4[1] && last4[2] == last4[3] && last4[0] != last4[2]
}
