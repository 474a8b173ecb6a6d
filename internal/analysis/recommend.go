package analysis

import "github.com/alanyoungcy/streakwatch/internal/domain"

// Recommend combines the three analyses: any high level means avoid, a
// detected pattern at low risk means bet, anything else means watch.
func Recommend(risk domain.RiskLevel, manipulation domain.ManipulationLevel, patterns []domain.Pattern) domain.Recommendation {
	if risk == domain.RiskHigh || manipulation == domain.ManipulationHigh {
		return domain.RecommendAvoid
	}
	if len(patterns) > 0 && risk == domain.RiskLow {
		return domain.RecommendBet
	}
	return domain.RecommendWatch
}
