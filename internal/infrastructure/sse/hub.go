package sse

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/swapmarket/swapmarket/internal/domain/notification"
)

// Hub manages SSE clients and implements notification.Notifier. Publish is
// non-blocking: a client whose channel is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.SSEClient
	logger  zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*notification.SSEClient),
		logger:  logger.With().Str("component", "sse_hub").Logger(),
	}
}

func (h *Hub) Register(client *notification.SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers an offer event to every connection of the affected user.
func (h *Hub) Publish(event notification.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal event")
		return
	}
	msg := notification.NewSSEMessage(string(event.Type), data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == nil || *c.UserID != event.AffectedUserID {
			continue
		}
		if !trySend(c, msg) {
			h.logger.Warn().
				Str("client_id", c.ClientID).
				Str("event", string(event.Type)).
				Msg("dropping event for slow client")
		}
	}
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *notification.SSEClient, msg *notification.SSEMessage) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
