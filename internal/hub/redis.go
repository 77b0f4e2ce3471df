package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisBroker is a Broker backed by Redis pub/sub, so that events reach users
// connected to any instance of the API.
type RedisBroker struct {
	client *goredis.Client
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker connects to Redis and verifies the connection.
func NewRedisBroker(addr, password string, db int) (*RedisBroker, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisBroker{client: client}, nil
}

// ChannelKey returns the pub/sub channel carrying a user's notifications.
func ChannelKey(userID uint) string {
	return fmt.Sprintf("n:%d", userID)
}

// Publish sends an event on the user's channel.
func (b *RedisBroker) Publish(ctx context.Context, userID uint, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, ChannelKey(userID), data).Err()
}

// Subscribe listens on the user's channel until the returned function is called.
func (b *RedisBroker) Subscribe(ctx context.Context, userID uint) (<-chan []byte, func(), error) {
	ps := b.client.Subscribe(ctx, ChannelKey(userID))
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, err
	}

	out := make(chan []byte, clientBuffer)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(func() { ps.Close() }) }, nil
}

// Close releases the Redis connection pool.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
