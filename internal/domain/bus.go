package domain

import (
	"context"
	"time"
)

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SignalBus provides pub/sub fan-out of session events.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// SessionChannelPrefix prefixes every per-session bus channel.
const SessionChannelPrefix = "session:"

// SessionChannel returns the bus channel carrying updates for one session.
func SessionChannel(sessionID string) string {
	return SessionChannelPrefix + sessionID
}
