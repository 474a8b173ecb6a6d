package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// IdleEvicter drops sessions that have been idle past their TTL.
type IdleEvicter interface {
	EvictIdle(ctx context.Context) int
}

// Sweeper runs EvictIdle on a cron schedule.
type Sweeper struct {
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
}

// NewSweeper registers the eviction job on schedule (standard cron syntax or
// descriptors like "@every 5m"). An empty schedule disables sweeping.
func NewSweeper(schedule string, sessions IdleEvicter, logger *slog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger.With(slog.String("component", "sweeper")),
	}
	if schedule == "" {
		return s, nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		evicted := sessions.EvictIdle(context.Background())
		s.logger.Debug("sweeper: idle sessions swept", slog.Int("evicted", evicted))
	})
	if err != nil {
		return nil, fmt.Errorf("sweeper: schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for a
// running job to finish.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.InfoContext(ctx, "sweeper: disabled")
		<-ctx.Done()
		return nil
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "sweeper: started", slog.String("schedule", s.schedule))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper: stopped")
	return nil
}
