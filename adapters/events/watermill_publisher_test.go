package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/keychat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAdmitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	messages, err := pubsub.Subscribe(ctx, PresenceTopic)
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubsub)
	session := core.NewSession("s1", "alice", "alice-laptop")
	require.NoError(t, pub.PublishAdmitted(ctx, session))

	select {
	case msg := <-messages:
		var event PresenceEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, EventAdmitted, event.Event)
		assert.Equal(t, "s1", event.SessionID)
		assert.Equal(t, "alice", event.Identity)
		assert.Equal(t, "alice-laptop", event.DisplayName)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no presence event received")
	}
}

func TestPublishDisconnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	messages, err := pubsub.Subscribe(ctx, PresenceTopic)
	require.NoError(t, err)

	pub := NewWatermillPublisher(pubsub)
	require.NoError(t, pub.PublishDisconnected(ctx, core.NewSession("s2", "bob", "bob")))

	select {
	case msg := <-messages:
		var event PresenceEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, EventDisconnected, event.Event)
		assert.Equal(t, "s2", event.SessionID)
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no presence event received")
	}
}
