package hub

import (
	"context"
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Broker fans events out to the live connections of a single user.
type Broker interface {
	// Publish delivers event to every current subscriber of userID.
	Publish(ctx context.Context, userID uint, event Event) error
	// Subscribe returns a channel of encoded events for userID and a function
	// that releases the subscription. The channel is closed on release.
	Subscribe(ctx context.Context, userID uint) (<-chan []byte, func(), error)
}

// Client represents a single client connection of a user.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

const clientBuffer = 16

// Hub is an in-process Broker.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
}

var _ Broker = (*Hub)(nil)

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client for the given user.
func (h *Hub) Subscribe(_ context.Context, userID uint) (<-chan []byte, func(), error) {
	client := make(Client, clientBuffer)

	h.mu.Lock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	h.mu.Unlock()

	var once sync.Once
	return client, func() { once.Do(func() { h.unsubscribe(userID, client) }) }, nil
}

func (h *Hub) unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Publish sends an event to all clients of a specific user.
func (h *Hub) Publish(_ context.Context, userID uint, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[userID]
	if !ok {
		return nil
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for client := range clients {
		// Use a non-blocking send to prevent a slow client from blocking the publisher.
		select {
		case client <- messageBytes:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of live clients of a user.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
