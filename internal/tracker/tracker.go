// Package tracker holds the state of one tracking session: the append-only
// outcome history and the latest analysis snapshot. Append and Reset are the
// only mutators. A Tracker is not safe for concurrent use; callers serialize
// access (see service.SessionService).
package tracker

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/streakwatch/internal/analysis"
	"github.com/alanyoungcy/streakwatch/internal/domain"
)

const (
	// GridMaxRecords caps how many records the display grid shows.
	GridMaxRecords = 90
	// GridRowWidth is the number of cells per grid row.
	GridRowWidth = 9
)

// Option customises a Tracker.
type Option func(*Tracker)

// WithClock overrides the timestamp source (tests, replays).
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides how record ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// Tracker is the explicitly-owned session state.
type Tracker struct {
	history  []domain.Record
	snapshot domain.Snapshot
	now      func() time.Time
	newID    func() string
}

// New returns an empty Tracker holding the initial snapshot.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		snapshot: domain.InitialSnapshot(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append records outcome with the current time and re-runs the analysis.
// With fewer than analysis.MinRecords records the snapshot is left as is.
func (t *Tracker) Append(outcome domain.Outcome) (domain.Record, error) {
	if !outcome.Valid() {
		return domain.Record{}, fmt.Errorf("tracker: append: %w: %d", domain.ErrInvalidOutcome, outcome)
	}

	rec := domain.Record{
		ID:         t.newID(),
		Outcome:    outcome,
		RecordedAt: t.now(),
	}
	t.history = append(t.history, rec)

	if snap, ok := analysis.Analyze(t.history, rec.RecordedAt); ok {
		t.snapshot = snap
	}
	return rec, nil
}

// Reset clears the history and restores the initial snapshot.
func (t *Tracker) Reset() {
	t.history = nil
	t.snapshot = domain.InitialSnapshot()
}

// Len returns the number of recorded outcomes.
func (t *Tracker) Len() int {
	return len(t.history)
}

// History returns a copy of the full history, oldest first.
func (t *Tracker) History() []domain.Record {
	out := make([]domain.Record, len(t.history))
	copy(out, t.history)
	return out
}

// Snapshot returns a copy of the latest analysis snapshot.
func (t *Tracker) Snapshot() domain.Snapshot {
	snap := t.snapshot
	snap.Patterns = slices.Clone(t.snapshot.Patterns)
	if snap.Patterns == nil {
		snap.Patterns = []domain.Pattern{}
	}
	return snap
}

// Grid returns the display grid built from the full history.
func (t *Tracker) Grid() [][]domain.Record {
	return Grid(t.history, GridMaxRecords, GridRowWidth)
}

// View bundles history, grid and snapshot for the presentation layer.
func (t *Tracker) View(sessionID string) domain.SessionView {
	return domain.SessionView{
		SessionID: sessionID,
		History:   t.History(),
		Grid:      t.Grid(),
		Snapshot:  t.Snapshot(),
	}
}
