package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus()
	exact, err := bus.Subscribe(ctx, "session:a")
	require.NoError(t, err)
	wildcard, err := bus.Subscribe(ctx, "session:*")
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, "session:b")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "session:a", []byte("hello")))

	assert.Equal(t, []byte("hello"), receive(t, exact))
	assert.Equal(t, []byte("hello"), receive(t, wildcard))
	select {
	case msg := <-other:
		t.Fatalf("unexpected message on other channel: %s", msg)
	default:
	}
}

func TestBus_SubscriptionClosesWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewBus()

	ch, err := bus.Subscribe(ctx, "session:a")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	ch, err := bus.Subscribe(context.Background(), "x")
	require.NoError(t, err)

	bus.Close()
	_, ok := <-ch
	assert.False(t, ok)

	late, err := bus.Subscribe(context.Background(), "x")
	require.NoError(t, err)
	_, ok = <-late
	assert.False(t, ok)
}

func TestBus_PayloadIsCopied(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus()
	ch, err := bus.Subscribe(ctx, "x")
	require.NoError(t, err)

	payload := []byte("abc")
	require.NoError(t, bus.Publish(ctx, "x", payload))
	payload[0] = 'z'
	assert.Equal(t, []byte("abc"), receive(t, ch))
}
