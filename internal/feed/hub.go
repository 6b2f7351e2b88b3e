// Package feed pushes new public submissions to admins connected over a
// websocket.
package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event announces a change admins should see without reloading.
type Event struct {
	Type    string    `json:"type"`
	Entity  string    `json:"entity"`
	Action  string    `json:"action"`
	ID      int64     `json:"id,omitempty"`
	Summary string    `json:"summary,omitempty"`
	At      time.Time `json:"at"`
}

// NewEvent stamps an event with the current time. Type is entity.action.
func NewEvent(entity, action string, id int64, summary string) Event {
	return Event{
		Type:    entity + "." + action,
		Entity:  entity,
		Action:  action,
		ID:      id,
		Summary: summary,
		At:      time.Now().UTC(),
	}
}

// Publisher is what handlers depend on to announce changes.
type Publisher interface {
	Publish(Event)
}

// Hub tracks connected admin clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds c. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Debug("feed client connected", "user", c.user, "clients", len(h.clients))
	return true
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("feed client disconnected", "user", c.user, "clients", len(h.clients))
	}
}

// Publish sends ev to every client. Slow clients miss events rather than
// block the publisher.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal feed event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("feed client buffer full, event dropped", "user", c.user, "type", ev.Type)
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
