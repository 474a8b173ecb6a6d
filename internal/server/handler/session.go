package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/server/middleware"
)

// SessionService defines the methods the session handlers require from the
// service layer.
type SessionService interface {
	AddResult(ctx context.Context, sessionID string, outcome domain.Outcome) (domain.SessionView, error)
	Reset(ctx context.Context, sessionID string) (domain.SessionView, error)
	View(ctx context.Context, sessionID string) domain.SessionView
}

// SessionHandler serves the JSON API and the form posts for the caller's own
// session. The session id always comes from the session cookie middleware.
type SessionHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logHandler(logger, "session"),
	}
}

type addResultRequest struct {
	Outcome string `json:"outcome"`
}

// GetSession returns the caller's current view.
// GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r.Context())
	writeJSON(w, http.StatusOK, h.sessions.View(r.Context(), id))
}

// AddResult records one outcome from a JSON body.
// POST /api/session/results {"outcome":"C"}
func (h *SessionHandler) AddResult(w http.ResponseWriter, r *http.Request) {
	var req addResultRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outcome, err := domain.ParseOutcome(req.Outcome)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	view, err := h.add(r.Context(), outcome)
	if err != nil {
		writeError(w, statusFor(err), "failed to record result")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ResetSession clears the caller's history.
// POST /api/session/reset
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.reset(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "failed to reset session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SubmitResult is the form variant of AddResult; it redirects back to the page.
// POST /results (form field "outcome")
func (h *SessionHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	outcome, err := domain.ParseOutcome(r.FormValue("outcome"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if _, err := h.add(r.Context(), outcome); err != nil {
		http.Error(w, "failed to record result", statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitReset is the form variant of ResetSession.
// POST /reset
func (h *SessionHandler) SubmitReset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.reset(r.Context()); err != nil {
		http.Error(w, "failed to reset session", statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *SessionHandler) add(ctx context.Context, outcome domain.Outcome) (domain.SessionView, error) {
	id := middleware.SessionID(ctx)
	view, err := h.sessions.AddResult(ctx, id, outcome)
	if err != nil {
		h.logger.ErrorContext(ctx, "handler: add result failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
	return view, err
}

func (h *SessionHandler) reset(ctx context.Context) (domain.SessionView, error) {
	id := middleware.SessionID(ctx)
	view, err := h.sessions.Reset(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "handler: reset failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}
	return view, err
}
