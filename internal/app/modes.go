package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/streakwatch/internal/server"
	"github.com/alanyoungcy/streakwatch/internal/server/handler"
	"github.com/alanyoungcy/streakwatch/internal/server/middleware"
	"github.com/alanyoungcy/streakwatch/internal/server/ws"
)

// ServeMode runs the HTTP server, the WebSocket hub and the idle-session
// sweeper until ctx is cancelled or one of them fails.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	sweeper, err := NewSweeper(a.cfg.Session.SweepSchedule, deps.Sessions, a.logger)
	if err != nil {
		return fmt.Errorf("serve mode: %w", err)
	}
	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	a.startHTTPServer(ctx, g, deps)

	return g.Wait()
}

// startHTTPServer adds the WebSocket hub and HTTP server goroutines to the
// given errgroup. The server is shut down gracefully when the context is
// cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	hub := ws.NewHub(deps.SignalBus, deps.Sessions, ws.Config{
		AllowedOrigins: a.cfg.Server.CORSOrigins,
	}, a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("ws hub: %w", err)
		}
		return nil
	})

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(),
		Status:  handler.NewStatusHandler(a.cfg.Mode, Version, time.Now().UTC(), deps.Sessions),
		Session: handler.NewSessionHandler(deps.Sessions, a.logger),
		Page:    handler.NewPageHandler(deps.Sessions, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimiter: deps.RateLimiter,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.RateWindow(),
		TrustProxy:  a.cfg.Server.TrustedProxy,
		Session: middleware.SessionOptions{
			Secure: a.cfg.Session.CookieSecure,
			MaxAge: a.cfg.SessionTTL(),
		},
	}, handlers, hub, a.logger)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
		defer cancel()
		a.logger.Info("serve mode: shutting down http server",
			slog.Duration("timeout", a.cfg.ShutdownTimeout()),
		)
		return srv.Shutdown(shutCtx)
	})
}
