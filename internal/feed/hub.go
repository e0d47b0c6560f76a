// Package feed pushes newly submitted reports to connected dashboard
// clients over websockets.
package feed

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// Hub fan-outs report events to subscribed websocket clients. All client
// bookkeeping happens on the Run goroutine; Publish never blocks the
// submitting request.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	logger     *zap.Logger
}

// Event is the wire format pushed to feed subscribers.
type Event struct {
	Type   string       `json:"type"`
	Report model.Report `json:"report"`
}

// NewHub creates a hub; call Run on its own goroutine.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes subscriptions and broadcasts until Shutdown.
func (h *Hub) Run() {
	clients := make(map[*client]bool)
	for {
		select {
		case c := <-h.register:
			clients[c] = true
			h.logger.Info("feed client connected", zap.Int("clients", len(clients)))
		case c := <-h.unregister:
			if clients[c] {
				delete(clients, c)
				close(c.send)
			}
			h.logger.Info("feed client disconnected", zap.Int("clients", len(clients)))
		case message := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer: drop it rather than stall the hub.
					delete(clients, c)
					close(c.send)
				}
			}
		case <-h.done:
			for c := range clients {
				close(c.send)
			}
			return
		}
	}
}

// Publish queues a report event for all subscribers. Drops the event if
// the hub is saturated; the feed is observability, not a durable queue.
func (h *Hub) Publish(report model.Report) {
	payload, err := json.Marshal(Event{Type: "report_submitted", Report: report})
	if err != nil {
		h.logger.Error("failed to encode feed event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("feed backlog full, dropping event")
	}
}

// Shutdown stops the hub and disconnects all clients.
func (h *Hub) Shutdown() {
	close(h.done)
}
