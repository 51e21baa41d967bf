package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	hub := NewHub()
	channel := TeamChannel(42)

	events, unsubscribe := hub.Subscribe(channel)
	defer unsubscribe()

	hub.Publish(channel, "message", map[string]interface{}{"content": "hi"})

	select {
	case event := <-events:
		assert.Equal(t, "message", event.Type)
		assert.Equal(t, channel, event.Channel)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishOnlyReachesMatchingChannel(t *testing.T) {
	hub := NewHub()

	teamEvents, unsubTeam := hub.Subscribe(TeamChannel(1))
	defer unsubTeam()
	userEvents, unsubUser := hub.Subscribe(UserChannel(1))
	defer unsubUser()

	hub.Publish(UserChannel(1), "notification", nil)

	select {
	case event := <-userEvents:
		assert.Equal(t, "notification", event.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case event := <-teamEvents:
		t.Fatalf("unexpected event on team channel: %+v", event)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	channel := TeamChannel(7)

	_, unsubscribe := hub.Subscribe(channel)
	require.Equal(t, 1, hub.SubscriberCount(channel))

	unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount(channel))

	// Publishing to a drained channel must not panic or block
	hub.Publish(channel, "message", nil)

	// Unsubscribing twice is safe
	unsubscribe()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	channel := UserChannel(9)

	events, unsubscribe := hub.Subscribe(channel)
	defer unsubscribe()

	// Overfill the buffer; Publish must drop rather than block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < eventBuffer*3; i++ {
			hub.Publish(channel, "message", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The buffered events are still there for a late reader.
	received := 0
	for {
		select {
		case <-events:
			received++
		default:
			assert.Equal(t, eventBuffer, received)
			return
		}
	}
}
