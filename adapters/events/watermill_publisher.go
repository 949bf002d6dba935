package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
)

// PresenceTopic is the topic presence events are published on.
const PresenceTopic = "keychat.presence"

// Presence event kinds.
const (
	EventAdmitted     = "admitted"
	EventDisconnected = "disconnected"
)

// PresenceEvent represents a session joining or leaving the server.
type PresenceEvent struct {
	Event       string `json:"event"`
	SessionID   string `json:"session_id"`
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill presence publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     PresenceTopic,
	}
}

// PublishAdmitted publishes an admission event for a session.
func (p *WatermillPublisher) PublishAdmitted(ctx context.Context, session *core.Session) error {
	return p.publish(EventAdmitted, session)
}

// PublishDisconnected publishes a disconnect event for a session.
func (p *WatermillPublisher) PublishDisconnected(ctx context.Context, session *core.Session) error {
	return p.publish(EventDisconnected, session)
}

func (p *WatermillPublisher) publish(event string, session *core.Session) error {
	payload, err := json.Marshal(PresenceEvent{
		Event:       event,
		SessionID:   session.ID,
		Identity:    session.Identity,
		DisplayName: session.DisplayName,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(session.ID, payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
