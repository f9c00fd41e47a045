package notify

import (
	"log/slog"
	"sync"

	"github.com/gin-contrib/sse"
	"github.com/google/uuid"
)

// clientBuffer bounds how far a slow client may lag before events are
// dropped for it. Delivery is fire-and-forget: a full buffer never blocks
// the publisher or other clients.
const clientBuffer = 16

// Hub is the registry of connected viewers. One channel per client;
// publishing fans out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]chan sse.Event
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]chan sse.Event),
		logger:  logger,
	}
}

// Subscribe registers a new client and returns its id and event channel.
// The caller must Unsubscribe when the connection closes.
func (h *Hub) Subscribe() (uuid.UUID, <-chan sse.Event) {
	id := uuid.New()
	ch := make(chan sse.Event, clientBuffer)

	h.mu.Lock()
	h.clients[id] = ch
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client subscribed", "client_id", id, "clients", clientCount)
	return id, ch
}

// Unsubscribe removes and closes the client's channel. Safe to call twice.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(ch)
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("client unsubscribed", "client_id", id, "clients", clientCount)
	}
}

// Publish delivers the event to every connected client without blocking.
// Clients whose buffer is full miss this event; they resynchronize from the
// next full-state refresh.
func (h *Hub) Publish(event sse.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping event for slow client", "client_id", id, "event", event.Event)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
