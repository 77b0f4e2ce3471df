package hub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) Event {
	t.Helper()
	select {
	case data, ok := <-ch:
		require.True(t, ok, "channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_PublishToSubscriber(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	ch, unsub, err := h.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, h.Publish(ctx, 1, Event{Type: "notification", Payload: map[string]int{"id": 7}}))

	ev := receive(t, ch)
	assert.Equal(t, "notification", ev.Type)
	assert.Equal(t, float64(7), ev.Payload.(map[string]interface{})["id"])
}

func TestHub_OtherUsersDoNotReceive(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	ch, unsub, err := h.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, h.Publish(ctx, 2, Event{Type: "notification"}))

	select {
	case <-ch:
		t.Fatal("unexpected event for another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	ch, unsub, err := h.Subscribe(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Subscribers(3))

	unsub()
	unsub() // second call is a no-op

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers(3))
	assert.NoError(t, h.Publish(ctx, 3, Event{Type: "notification"}))
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()
	ctx := context.Background()

	_, unsub, err := h.Subscribe(ctx, 4)
	require.NoError(t, err)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*4; i++ {
			_ = h.Publish(ctx, 4, Event{Type: "notification"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full client")
	}
}

func TestRedisBroker_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	b, err := NewRedisBroker(addr, "", 0)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	ch, unsub, err := b.Subscribe(ctx, 42)
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, b.Publish(ctx, 42, Event{Type: "notification"}))
	assert.Equal(t, "notification", receive(t, ch).Type)
}

func TestChannelKey(t *testing.T) {
	assert.Equal(t, "n:42", ChannelKey(42))
}
