package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

func newTestTracker() *Tracker {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick, id := 0, 0
	return New(
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			id++
			return fmt.Sprintf("rec-%d", id)
		}),
	)
}

func appendAll(t *testing.T, tr *Tracker, outcomes ...domain.Outcome) {
	t.Helper()
	for _, o := range outcomes {
		_, err := tr.Append(o)
		require.NoError(t, err)
	}
}

const (
	red  = domain.OutcomeRed
	blue = domain.OutcomeBlue
	tie  = domain.OutcomeTie
)

func TestTracker_InitialState(t *testing.T) {
	tr := New()
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.History())
	assert.Equal(t, domain.InitialSnapshot(), tr.Snapshot())
	assert.Empty(t, tr.Grid())
}

func TestTracker_SnapshotUnchangedBelowThreeRecords(t *testing.T) {
	tr := newTestTracker()
	before := tr.Snapshot()

	appendAll(t, tr, red)
	assert.Equal(t, before, tr.Snapshot())

	appendAll(t, tr, red)
	assert.Equal(t, before, tr.Snapshot())
	assert.Equal(t, 2, tr.Len())
}

func TestTracker_AppendAnalyzes(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, red, red, blue, blue)

	snap := tr.Snapshot()
	require.Len(t, snap.Patterns, 1)
	assert.Equal(t, domain.OutcomeBlue, snap.Patterns[0].Color)
	assert.Equal(t, 2, snap.Patterns[0].Length)
	assert.Equal(t, domain.OutcomeBlue, snap.Prediction)
	assert.Equal(t, 65, snap.Confidence)
	assert.Equal(t, tr.History()[4].RecordedAt, snap.AnalyzedAt)
}

func TestTracker_StaleSnapshotAfterResetUntilThree(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, red, red)
	require.NotEqual(t, domain.InitialSnapshot(), tr.Snapshot())

	tr.Reset()
	appendAll(t, tr, blue, blue)
	assert.Equal(t, domain.InitialSnapshot(), tr.Snapshot())
}

func TestTracker_AppendRejectsInvalidOutcome(t *testing.T) {
	tr := newTestTracker()
	_, err := tr.Append(domain.OutcomeNone)
	require.ErrorIs(t, err, domain.ErrInvalidOutcome)
	assert.Zero(t, tr.Len())
}

func TestTracker_RecordsAreTimestampedInOrder(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, tie, blue)

	h := tr.History()
	require.Len(t, h, 3)
	assert.Equal(t, []domain.Outcome{red, tie, blue}, domain.OutcomesOf(h))
	assert.Equal(t, "rec-1", h[0].ID)
	assert.True(t, h[0].RecordedAt.Before(h[1].RecordedAt))
	assert.True(t, h[1].RecordedAt.Before(h[2].RecordedAt))
}

func TestTracker_ResetIsIdempotent(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, blue, tie, tie)

	tr.Reset()
	first := tr.Snapshot()
	assert.Empty(t, tr.History())

	tr.Reset()
	assert.Equal(t, first, tr.Snapshot())
	assert.Equal(t, domain.InitialSnapshot(), tr.Snapshot())
	assert.Empty(t, tr.History())
}

func TestTracker_CopiesDoNotAlias(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, red, red)

	h := tr.History()
	h[0].Outcome = blue
	assert.Equal(t, red, tr.History()[0].Outcome)

	snap := tr.Snapshot()
	snap.Patterns[0].Length = 99
	assert.Equal(t, 3, tr.Snapshot().Patterns[0].Length)
}

func TestTracker_View(t *testing.T) {
	tr := newTestTracker()
	appendAll(t, tr, red, blue, red, blue)

	v := tr.View("abc")
	assert.Equal(t, "abc", v.SessionID)
	assert.Len(t, v.History, 4)
	require.Len(t, v.Grid, 1)
	assert.Equal(t, blue, v.Grid[0][0].Outcome)
	assert.Equal(t, tr.Snapshot(), v.Snapshot)
}
