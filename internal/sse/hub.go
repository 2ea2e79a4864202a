package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventCountdownTick      EventType = "countdown.tick"
	EventFlashSaleRefreshed EventType = "flashsale.refreshed"
)

// clientBuffer is the number of undelivered events kept per client.
const clientBuffer = 8

// Event is the payload broadcast to storefront SSE clients.
type Event struct {
	Event     EventType `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one open flash-sale stream.
type Client struct {
	ID     string
	Events chan []byte

	dropped int
}

// Hub fans flash-sale events out to every open stream. A slow stream loses
// its oldest pending events, never the newest.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register opens a stream for clientID.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{ID: clientID, Events: make(chan []byte, clientBuffer)}
	h.clients[clientID] = c
	log.Debug().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("Flash sale stream connected")
	return c
}

// Unregister closes the stream of clientID.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(c.Events)
	delete(h.clients, clientID)
	log.Debug().
		Str("client_id", clientID).
		Int("dropped_events", c.dropped).
		Int("total_clients", len(h.clients)).
		Msg("Flash sale stream disconnected")
}

// Broadcast queues event on every stream without blocking.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Event)).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.push(data)
	}
}

// push enqueues data, evicting the oldest pending event when full. Callers
// hold the hub lock, so pushes to one client never race.
func (c *Client) push(data []byte) {
	for {
		select {
		case c.Events <- data:
			return
		default:
		}
		select {
		case <-c.Events:
			c.dropped++
		default:
		}
	}
}

// ClientCount returns the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
