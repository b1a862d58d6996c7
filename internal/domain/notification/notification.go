package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventType identifies an offer lifecycle event.
type EventType string

const (
	EventOfferCreated   EventType = "OFFER_CREATED"
	EventOfferAccepted  EventType = "OFFER_ACCEPTED"
	EventOfferRejected  EventType = "OFFER_REJECTED"
	EventOfferCancelled EventType = "OFFER_CANCELLED"
	EventOfferCompleted EventType = "OFFER_COMPLETED"
	// EventOfferCascadeRejected is sent to the losing party of each offer
	// auto-rejected when a shared product was claimed by another trade.
	EventOfferCascadeRejected EventType = "OFFER_CASCADE_REJECTED"
	EventOfferExpired         EventType = "OFFER_EXPIRED"
)

var (
	ErrClientNotFound = errors.New("SSE client not found")
	ErrChannelFull    = errors.New("SSE message channel full")
)

// Event describes what happened to an offer and who should hear about it.
type Event struct {
	Type           EventType `json:"type"`
	OfferID        uuid.UUID `json:"offerId"`
	AffectedUserID uuid.UUID `json:"affectedUserId"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(t EventType, offerID, affectedUserID uuid.UUID, reason string) Event {
	return Event{
		Type:           t,
		OfferID:        offerID,
		AffectedUserID: affectedUserID,
		Reason:         reason,
		OccurredAt:     time.Now().UTC(),
	}
}

// Notifier delivers offer events to users. Delivery is best-effort and
// fire-and-forget: a failed delivery must never affect a state transition.
type Notifier interface {
	Publish(event Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}

// SSEClient represents an active SSE connection.
type SSEClient struct {
	ClientID    string
	UserID      *uuid.UUID
	ConnectedAt time.Time
	MessageChan chan *SSEMessage
}

// NewSSEClient creates a new SSE client.
func NewSSEClient(clientID string, userID *uuid.UUID) *SSEClient {
	return &SSEClient{
		ClientID:    clientID,
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *SSEMessage, 100),
	}
}

// Close closes the client's message channel.
func (c *SSEClient) Close() {
	close(c.MessageChan)
}

// SSEMessage represents a message to be sent via SSE.
type SSEMessage struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSSEMessage creates a new SSE message.
func NewSSEMessage(event string, data json.RawMessage) *SSEMessage {
	return &SSEMessage{
		ID:        uuid.New().String(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
