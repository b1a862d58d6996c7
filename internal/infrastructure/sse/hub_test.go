package sse

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket/internal/domain/notification"
)

func TestPublishTargetsAffectedUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	alice, bob := uuid.New(), uuid.New()
	aliceClient := notification.NewSSEClient("c1", &alice)
	bobClient := notification.NewSSEClient("c2", &bob)
	hub.Register(aliceClient)
	hub.Register(bobClient)
	assert.Equal(t, 2, hub.GetClientCount())

	event := notification.NewEvent(notification.EventOfferRejected, uuid.New(), alice, "no thanks")
	hub.Publish(event)

	select {
	case msg := <-aliceClient.MessageChan:
		require.NotNil(t, msg)
		assert.Equal(t, string(notification.EventOfferRejected), msg.Event)
	default:
		t.Fatal("expected a message for the affected user")
	}

	select {
	case <-bobClient.MessageChan:
		t.Fatal("unaffected user must not receive the event")
	default:
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	alice := uuid.New()
	client := notification.NewSSEClient("c1", &alice)
	hub.Register(client)

	for i := 0; i < cap(client.MessageChan)+10; i++ {
		hub.Publish(notification.NewEvent(notification.EventOfferCreated, uuid.New(), alice, ""))
	}
	assert.Len(t, client.MessageChan, cap(client.MessageChan))
}

func TestUnregisterClosesClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	alice := uuid.New()
	client := notification.NewSSEClient("c1", &alice)
	hub.Register(client)
	hub.Unregister("c1")
	assert.Equal(t, 0, hub.GetClientCount())

	_, open := <-client.MessageChan
	assert.False(t, open)
}
