package analysis

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

// seq turns a code string such as "CCVE" into outcomes.
func seq(t *testing.T, codes string) []domain.Outcome {
	t.Helper()
	out := make([]domain.Outcome, 0, len(codes))
	for _, c := range codes {
		o, err := domain.ParseOutcome(string(c))
		require.NoError(t, err)
		out = append(out, o)
	}
	return out
}

func records(t *testing.T, codes string) []domain.Record {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var recs []domain.Record
	for i, o := range seq(t, codes) {
		recs = append(recs, domain.Record{
			ID:         uuid.NewString(),
			Outcome:    o,
			RecordedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return recs
}
