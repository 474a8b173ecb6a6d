package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/server/middleware"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is the model rendered by templates/index.html.
type pageData struct {
	Outcomes   []domain.Outcome
	Labels     map[string]string
	View       domain.SessionView
	Prediction string
}

// PageHandler renders the tracker page for the caller's session.
type PageHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(sessions SessionService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		sessions: sessions,
		logger:   logHandler(logger, "page"),
	}
}

// Index renders the outcome buttons, grid and analysis panel.
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	view := h.sessions.View(r.Context(), middleware.SessionID(r.Context()))

	data := pageData{
		Outcomes:   domain.Outcomes,
		Labels:     make(map[string]string, len(domain.Outcomes)),
		View:       view,
		Prediction: predictionLabel(view.Snapshot),
	}
	for _, o := range domain.Outcomes {
		data.Labels[o.Code()] = o.Label()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: render page failed",
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func predictionLabel(s domain.Snapshot) string {
	if !s.HasPrediction() {
		return "Waiting..."
	}
	return s.Prediction.Label()
}
