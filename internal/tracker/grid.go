package tracker

import "github.com/alanyoungcy/streakwatch/internal/domain"

// Grid lays out at most maxRecords of the most recent records, newest first,
// in rows of rowWidth. The final row may be shorter. The result is never nil.
func Grid(history []domain.Record, maxRecords, rowWidth int) [][]domain.Record {
	rows := [][]domain.Record{}
	if len(history) == 0 || maxRecords <= 0 || rowWidth <= 0 {
		return rows
	}

	start := max(0, len(history)-maxRecords)
	recent := make([]domain.Record, 0, len(history)-start)
	for i := len(history) - 1; i >= start; i-- {
		recent = append(recent, history[i])
	}

	for i := 0; i < len(recent); i += rowWidth {
		end := min(i+rowWidth, len(recent))
		rows = append(rows, recent[i:end])
	}
	return rows
}
