package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/tracker"
)

// SessionConfig holds the tunables for session lifetime.
type SessionConfig struct {
	TTL         time.Duration // idle time after which EvictIdle drops a session
	MaxSessions int           // least-recently-used session is dropped beyond this
}

// SnapshotObserver is notified with the previous and new snapshot after a
// session changes. AlertService implements it.
type SnapshotObserver interface {
	Observe(ctx context.Context, sessionID string, prev, next domain.Snapshot)
}

// session pairs a tracker with the mutex that serializes its mutations.
type session struct {
	mu       sync.Mutex
	tracker  *tracker.Tracker
	lastSeen time.Time
}

// SessionService owns every live tracking session. Sessions are isolated from
// each other and live only in process memory.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*session

	cfg      SessionConfig
	bus      domain.SignalBus
	observer SnapshotObserver
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionService creates a SessionService. observer may be nil.
func NewSessionService(
	cfg SessionConfig,
	bus domain.SignalBus,
	observer SnapshotObserver,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions: make(map[string]*session),
		cfg:      cfg,
		bus:      bus,
		observer: observer,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "session_service")),
	}
}

// AddResult appends outcome to the session's history, re-runs the analysis
// and publishes the new view.
func (s *SessionService) AddResult(ctx context.Context, sessionID string, outcome domain.Outcome) (domain.SessionView, error) {
	sess := s.acquire(sessionID)

	sess.mu.Lock()
	prev := sess.tracker.Snapshot()
	rec, err := sess.tracker.Append(outcome)
	if err != nil {
		sess.mu.Unlock()
		return domain.SessionView{}, fmt.Errorf("session_service: add result: %w", err)
	}
	view := sess.tracker.View(sessionID)
	// Published under the session lock so subscribers see views in mutation order.
	s.publish(ctx, view)
	sess.mu.Unlock()

	s.logger.DebugContext(ctx, "session_service: result added",
		slog.String("session_id", sessionID),
		slog.String("outcome", rec.Outcome.Code()),
		slog.Int("history_len", len(view.History)),
		slog.String("recommendation", string(view.Snapshot.Recommendation)),
	)

	if s.observer != nil {
		s.observer.Observe(ctx, sessionID, prev, view.Snapshot)
	}
	return view, nil
}

// Reset clears the session's history and snapshot and publishes the view.
func (s *SessionService) Reset(ctx context.Context, sessionID string) (domain.SessionView, error) {
	sess := s.acquire(sessionID)

	sess.mu.Lock()
	sess.tracker.Reset()
	view := sess.tracker.View(sessionID)
	s.publish(ctx, view)
	sess.mu.Unlock()

	s.logger.InfoContext(ctx, "session_service: session reset",
		slog.String("session_id", sessionID),
	)
	return view, nil
}

// View returns the current view of a session. Unknown sessions yield an empty
// view and are not created.
func (s *SessionService) View(ctx context.Context, sessionID string) domain.SessionView {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()

	if !ok {
		return tracker.New().View(sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.tracker.View(sessionID)
}

// ActiveSessions returns the number of sessions held in memory.
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions not touched for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) EvictIdle(ctx context.Context) int {
	if s.cfg.TTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.TTL)

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.InfoContext(ctx, "session_service: evicted idle sessions",
			slog.Int("evicted", evicted),
			slog.Int("remaining", remaining),
		)
	}
	return evicted
}

// acquire returns the session for id, creating it when absent. Creating a
// session beyond MaxSessions drops the least-recently-used one.
func (s *SessionService) acquire(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess
	}

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.evictOldestLocked()
	}

	sess := &session{tracker: tracker.New(), lastSeen: now}
	s.sessions[id] = sess
	return sess
}

func (s *SessionService) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.logger.Warn("session_service: session cap reached, dropped least recently used",
			slog.String("session_id", oldestID),
			slog.Int("max_sessions", s.cfg.MaxSessions),
		)
	}
}

// publish fans the view out to WebSocket subscribers. Callers hold the
// session lock. Failures are logged; the mutation has already happened.
func (s *SessionService) publish(ctx context.Context, view domain.SessionView) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(domain.SessionEvent{Type: domain.EventSessionUpdate, Payload: view})
	if err != nil {
		s.logger.ErrorContext(ctx, "session_service: marshal event failed",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.bus.Publish(ctx, domain.SessionChannel(view.SessionID), data); err != nil {
		s.logger.WarnContext(ctx, "session_service: publish failed",
			slog.String("session_id", view.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
