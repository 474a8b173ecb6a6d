package domain

import "time"

// Record is one entry of a session's history. Records are created by the
// tracker when a result is added and are never modified afterwards.
type Record struct {
	ID         string    `json:"id"`
	Outcome    Outcome   `json:"outcome"`
	RecordedAt time.Time `json:"recorded_at"`
}

// OutcomesOf extracts the outcome sequence from records, oldest first.
func OutcomesOf(records []Record) []Outcome {
	out := make([]Outcome, len(records))
	for i, r := range records {
		out[i] = r.Outcome
	}
	return out
}
