package handler

import (
	"net/http"
	"time"
)

// SessionCounter reports how many tracking sessions are held in memory.
type SessionCounter interface {
	ActiveSessions() int
}

// StatusHandler serves the process status for operators.
type StatusHandler struct {
	mode      string
	version   string
	startedAt time.Time
	sessions  SessionCounter
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(mode, version string, startedAt time.Time, sessions SessionCounter) *StatusHandler {
	return &StatusHandler{mode: mode, version: version, startedAt: startedAt, sessions: sessions}
}

// GetStatus responds with mode, version, uptime and the active session count.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":            h.mode,
		"version":         h.version,
		"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
		"active_sessions": h.sessions.ActiveSessions(),
	})
}
