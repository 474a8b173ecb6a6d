package domain

import "time"

// RiskLevel is the bucketed risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ManipulationLevel is the bucketed manipulation score. ManipulationNone is
// only ever the pre-analysis default; the detector's lowest output is low.
type ManipulationLevel string

const (
	ManipulationNone   ManipulationLevel = "none"
	ManipulationLow    ManipulationLevel = "low"
	ManipulationMedium ManipulationLevel = "medium"
	ManipulationHigh   ManipulationLevel = "high"
)

// Recommendation is the suggested action for the next round.
type Recommendation string

const (
	RecommendWatch Recommendation = "watch"
	RecommendBet   Recommendation = "bet"
	RecommendAvoid Recommendation = "avoid"
)

// Snapshot is the result of one analysis pass. It is replaced wholesale on
// every pass, never merged.
type Snapshot struct {
	Patterns       []Pattern         `json:"patterns"`
	Risk           RiskLevel         `json:"risk_level"`
	Manipulation   ManipulationLevel `json:"manipulation_level"`
	Prediction     Outcome           `json:"prediction"`
	Confidence     int               `json:"confidence"`
	Recommendation Recommendation    `json:"recommendation"`
	AnalyzedAt     time.Time         `json:"analyzed_at,omitzero"`
}

// InitialSnapshot is the value shown before any analysis has run.
func InitialSnapshot() Snapshot {
	return Snapshot{
		Patterns:       []Pattern{},
		Risk:           RiskLow,
		Manipulation:   ManipulationNone,
		Prediction:     OutcomeNone,
		Confidence:     0,
		Recommendation: RecommendWatch,
	}
}

// HasPrediction reports whether a next outcome has been proposed.
func (s Snapshot) HasPrediction() bool {
	return s.Prediction.Valid()
}
