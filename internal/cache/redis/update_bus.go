package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/streakwatch/internal/domain"
)

// updateBuffer is the per-subscription channel capacity.
const updateBuffer = 128

// UpdateBus carries session_update events between replicas over Redis
// Pub/Sub. It only delivers views published by the replica that owns a
// session; it never stores or merges session history. Deployments with more
// than one replica must still route each session cookie to a single replica.
type UpdateBus struct {
	rdb *redis.Client
}

// NewUpdateBus creates an UpdateBus on the given Client.
func NewUpdateBus(c *Client) *UpdateBus {
	return &UpdateBus{rdb: c.Underlying()}
}

// Publish sends one encoded session event. Delivery is fire-and-forget:
// subscribers that are not connected at publish time miss it.
func (b *UpdateBus) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe follows channel (PSUBSCRIBE when it contains a glob) until ctx
// ends, at which point the returned channel is closed. The subscription is
// confirmed before Subscribe returns, so a Publish issued afterwards is seen.
func (b *UpdateBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := b.open(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", channel, err)
	}

	out := make(chan []byte, updateBuffer)
	go relay(ctx, pubsub, out)
	return out, nil
}

func (b *UpdateBus) open(ctx context.Context, channel string) *redis.PubSub {
	if strings.ContainsAny(channel, "*?[") {
		return b.rdb.PSubscribe(ctx, channel)
	}
	return b.rdb.Subscribe(ctx, channel)
}

// relay copies payloads from pubsub to out until ctx ends or Redis closes
// the subscription.
func relay(ctx context.Context, pubsub *redis.PubSub, out chan<- []byte) {
	defer close(out)
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

var _ domain.SignalBus = (*UpdateBus)(nil)
