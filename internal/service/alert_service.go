package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

// Alert event names, matched against notify.events in the config.
const (
	EventRecommendationAvoid = "recommendation_avoid"
	EventManipulationHigh    = "manipulation_high"
	EventRiskHigh            = "risk_high"
)

// Notifier delivers an alert for a named event.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// AlertService raises notifications when a session's snapshot crosses into a
// high-risk state. Only transitions alert; staying in the state does not.
type AlertService struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewAlertService creates an AlertService. notifier may be nil, in which case
// alerts are only logged.
func NewAlertService(notifier Notifier, logger *slog.Logger) *AlertService {
	return &AlertService{
		notifier: notifier,
		logger:   logger.With(slog.String("component", "alert_service")),
	}
}

// Observe implements SnapshotObserver.
func (a *AlertService) Observe(ctx context.Context, sessionID string, prev, next domain.Snapshot) {
	if next.Recommendation == domain.RecommendAvoid && prev.Recommendation != domain.RecommendAvoid {
		a.raise(ctx, EventRecommendationAvoid, sessionID, "Recommendation: avoid",
			fmt.Sprintf("risk=%s manipulation=%s", next.Risk, next.Manipulation))
	}
	if next.Manipulation == domain.ManipulationHigh && prev.Manipulation != domain.ManipulationHigh {
		a.raise(ctx, EventManipulationHigh, sessionID, "Manipulation level high",
			describePatterns(next.Patterns))
	}
	if next.Risk == domain.RiskHigh && prev.Risk != domain.RiskHigh {
		a.raise(ctx, EventRiskHigh, sessionID, "Risk level high",
			describePatterns(next.Patterns))
	}
}

func (a *AlertService) raise(ctx context.Context, event, sessionID, title, detail string) {
	message := fmt.Sprintf("session %s: %s", sessionID, detail)

	a.logger.InfoContext(ctx, "alert_service: alert raised",
		slog.String("event", event),
		slog.String("session_id", sessionID),
	)

	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(ctx, event, title, message); err != nil {
		a.logger.WarnContext(ctx, "alert_service: notify failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

func describePatterns(patterns []domain.Pattern) string {
	if len(patterns) == 0 {
		return "no patterns"
	}
	descs := make([]string, len(patterns))
	for i, p := range patterns {
		descs[i] = p.Description
	}
	return strings.Join(descs, "; ")
}
