package ports

import (
	"context"

	"github.com/layer-3/keychat/core"
)

// EventPublisher publishes presence events to notify operators and
// other instances about session lifecycle changes.
type EventPublisher interface {
	PublishAdmitted(ctx context.Context, session *core.Session) error
	PublishDisconnected(ctx context.Context, session *core.Session) error
}
