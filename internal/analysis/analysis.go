// Package analysis implements the heuristic statistics computed over the
// trailing window of a session's history: pattern detection, risk and
// manipulation scoring, next-outcome prediction and the final
// recommendation. Every function here is pure.
package analysis

import (
	"time"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

const (
	// MinRecords is the history length below which analysis is skipped.
	MinRecords = 3
	// WindowSize is the number of trailing records every analysis sees.
	WindowSize = 27
)

// Window returns the trailing WindowSize records (or all of them if fewer).
// The returned slice aliases records.
func Window(records []domain.Record) []domain.Record {
	if len(records) <= WindowSize {
		return records
	}
	return records[len(records)-WindowSize:]
}

// Analyze recomputes a snapshot from the trailing window of records. The
// second return value is false when there are fewer than MinRecords records,
// in which case the caller must keep its previous snapshot.
func Analyze(records []domain.Record, now time.Time) (domain.Snapshot, bool) {
	if len(records) < MinRecords {
		return domain.Snapshot{}, false
	}

	window := domain.OutcomesOf(Window(records))

	patterns := DetectPatterns(window)
	risk := AssessRisk(window)
	manipulation := DetectManipulation(window)
	prediction := Predict(window, patterns)

	return domain.Snapshot{
		Patterns:       patterns,
		Risk:           risk,
		Manipulation:   manipulation,
		Prediction:     prediction.Outcome,
		Confidence:     prediction.Confidence,
		Recommendation: Recommend(risk, manipulation, patterns),
		AnalyzedAt:     now,
	}, true
}
