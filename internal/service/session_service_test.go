package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/streakwatch/internal/bus/memory"
	"github.com/alanyoungcy/streakwatch/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []domain.Snapshot
}

func (r *recordingObserver) Observe(_ context.Context, _ string, _, next domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, next)
}

func newTestService(cfg SessionConfig, observer SnapshotObserver) (*SessionService, *memory.Bus) {
	bus := memory.NewBus()
	return NewSessionService(cfg, bus, observer, discardLogger()), bus
}

func addAll(t *testing.T, svc *SessionService, id string, outcomes ...domain.Outcome) domain.SessionView {
	t.Helper()
	var view domain.SessionView
	for _, o := range outcomes {
		var err error
		view, err = svc.AddResult(context.Background(), id, o)
		require.NoError(t, err)
	}
	return view
}

func TestSessionService_AddResult(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)

	view := addAll(t, svc, "s1",
		domain.OutcomeRed, domain.OutcomeRed, domain.OutcomeRed,
		domain.OutcomeBlue, domain.OutcomeBlue,
	)

	assert.Equal(t, "s1", view.SessionID)
	assert.Len(t, view.History, 5)
	assert.Equal(t, domain.OutcomeBlue, view.Snapshot.Prediction)
	assert.Equal(t, 65, view.Snapshot.Confidence)
	assert.Equal(t, domain.RecommendBet, view.Snapshot.Recommendation)
}

func TestSessionService_AddResultInvalid(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)
	_, err := svc.AddResult(context.Background(), "s1", domain.OutcomeNone)
	require.ErrorIs(t, err, domain.ErrInvalidOutcome)
}

func TestSessionService_SessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)

	addAll(t, svc, "a", domain.OutcomeRed, domain.OutcomeRed, domain.OutcomeRed)
	addAll(t, svc, "b", domain.OutcomeTie)

	a := svc.View(context.Background(), "a")
	b := svc.View(context.Background(), "b")
	assert.Len(t, a.History, 3)
	assert.Len(t, b.History, 1)
	assert.Equal(t, domain.InitialSnapshot(), b.Snapshot)
	assert.Equal(t, 2, svc.ActiveSessions())
}

func TestSessionService_ViewDoesNotCreate(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)

	view := svc.View(context.Background(), "ghost")
	assert.Equal(t, "ghost", view.SessionID)
	assert.Empty(t, view.History)
	assert.Equal(t, domain.InitialSnapshot(), view.Snapshot)
	assert.Zero(t, svc.ActiveSessions())
}

func TestSessionService_Reset(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)
	addAll(t, svc, "s1", domain.OutcomeRed, domain.OutcomeBlue, domain.OutcomeTie)

	for i := 0; i < 2; i++ {
		view, err := svc.Reset(context.Background(), "s1")
		require.NoError(t, err)
		assert.Empty(t, view.History)
		assert.Empty(t, view.Grid)
		assert.Equal(t, domain.InitialSnapshot(), view.Snapshot)
	}
}

func TestSessionService_PublishesUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, bus := newTestService(SessionConfig{}, nil)
	ch, err := bus.Subscribe(ctx, domain.SessionChannel("s1"))
	require.NoError(t, err)

	addAll(t, svc, "s1", domain.OutcomeTie)

	select {
	case data := <-ch:
		var ev domain.SessionEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, domain.EventSessionUpdate, ev.Type)
		assert.Equal(t, "s1", ev.Payload.SessionID)
		require.Len(t, ev.Payload.History, 1)
		assert.Equal(t, domain.OutcomeTie, ev.Payload.History[0].Outcome)
	case <-time.After(time.Second):
		t.Fatal("no session event published")
	}
}

func TestSessionService_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	svc, _ := newTestService(SessionConfig{}, obs)

	addAll(t, svc, "s1", domain.OutcomeRed, domain.OutcomeRed, domain.OutcomeRed)

	require.Len(t, obs.calls, 3)
	assert.Equal(t, domain.InitialSnapshot(), obs.calls[1])
	assert.Equal(t, domain.OutcomeBlue, obs.calls[2].Prediction)
}

func TestSessionService_EvictIdle(t *testing.T) {
	svc, _ := newTestService(SessionConfig{TTL: time.Hour}, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	addAll(t, svc, "old", domain.OutcomeRed)
	now = now.Add(90 * time.Minute)
	addAll(t, svc, "fresh", domain.OutcomeBlue)

	assert.Equal(t, 1, svc.EvictIdle(context.Background()))
	assert.Equal(t, 1, svc.ActiveSessions())
	assert.Empty(t, svc.View(context.Background(), "old").History)
	assert.Len(t, svc.View(context.Background(), "fresh").History, 1)
}

func TestSessionService_EvictIdleDisabled(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)
	addAll(t, svc, "a", domain.OutcomeRed)
	assert.Zero(t, svc.EvictIdle(context.Background()))
}

func TestSessionService_MaxSessionsDropsLeastRecentlyUsed(t *testing.T) {
	svc, _ := newTestService(SessionConfig{MaxSessions: 2}, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	addAll(t, svc, "a", domain.OutcomeRed)
	addAll(t, svc, "b", domain.OutcomeRed)
	addAll(t, svc, "a", domain.OutcomeBlue) // a is now more recent than b
	addAll(t, svc, "c", domain.OutcomeTie)

	assert.Equal(t, 2, svc.ActiveSessions())
	assert.Len(t, svc.View(context.Background(), "a").History, 2)
	assert.Empty(t, svc.View(context.Background(), "b").History)
	assert.Len(t, svc.View(context.Background(), "c").History, 1)
}

func TestSessionService_ConcurrentAppendsSameSession(t *testing.T) {
	svc, _ := newTestService(SessionConfig{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddResult(context.Background(), "shared", domain.OutcomeRed)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.View(context.Background(), "shared").History, 50)
}

func TestSessionService_ConcurrentAppendsPublishInOrder(t *testing.T) {
	const appends = 100
	svc, bus := newTestService(SessionConfig{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for trial := range 20 {
		id := fmt.Sprintf("shared-%d", trial)
		events, err := bus.Subscribe(ctx, domain.SessionChannel(id))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range appends {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.AddResult(ctx, id, domain.OutcomeRed)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		require.Len(t, events, appends)
		prev := 0
		for range appends {
			var ev domain.SessionEvent
			require.NoError(t, json.Unmarshal(<-events, &ev))
			assert.Equal(t, prev+1, len(ev.Payload.History), "trial %d", trial)
			prev = len(ev.Payload.History)
		}
		assert.Equal(t, appends, prev, "trial %d", trial)
	}
}
