package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/streakwatch/internal/bus/memory"
	"github.com/alanyoungcy/streakwatch/internal/cache/redis"
	"github.com/alanyoungcy/streakwatch/internal/config"
	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/notify"
	"github.com/alanyoungcy/streakwatch/internal/service"
)

// Dependencies bundles everything the serve mode needs. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	SignalBus   domain.SignalBus
	RateLimiter domain.RateLimiter // nil when Redis is disabled
	Notifier    *notify.Notifier

	Sessions *service.SessionService
	Alerts   *service.AlertService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Event bus and rate limiter ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		// Sessions stay in this replica's memory; Redis only relays their
		// updates and shares the rate-limit budget. Replicas must sit behind
		// routing that is sticky on the session cookie.
		deps.SignalBus = redis.NewUpdateBus(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		logger.InfoContext(ctx, "wire: using redis update bus; sessions are replica-local, route replicas by session cookie",
			slog.String("addr", cfg.Redis.Addr),
		)
	} else {
		bus := memory.NewBus()
		closers = append(closers, bus.Close)
		deps.SignalBus = bus
		logger.InfoContext(ctx, "wire: using in-process event bus; rate limiting disabled")
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Services ---
	var notifier service.Notifier
	if deps.Notifier.Enabled() {
		notifier = deps.Notifier
	}
	deps.Alerts = service.NewAlertService(notifier, logger)
	deps.Sessions = service.NewSessionService(service.SessionConfig{
		TTL:         cfg.SessionTTL(),
		MaxSessions: cfg.Session.MaxSessions,
	}, deps.SignalBus, deps.Alerts, logger)

	return deps, cleanup, nil
}
