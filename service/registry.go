package service

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/layer-3/keychat/core"
)

// Registry is the shared table of live sessions and the broadcast
// mechanism over them. All mutation goes through Admit, Remove and
// Broadcast under a single mutex; no caller reaches into another
// session's internals directly.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*core.Session

	delivered atomic.Int64
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*core.Session),
	}
}

// Admit inserts a session into the registry. A duplicate session id is
// an invariant violation under correct id generation: the existing
// entry is kept, the new session is rejected and the violation logged.
func (r *Registry) Admit(session *core.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		log.Printf("registry: duplicate session id %s for %q, rejecting", session.ID, session.DisplayName)
		return core.ErrDuplicateSession
	}

	r.sessions[session.ID] = session
	return nil
}

// Remove deletes a session from the registry. Removing an absent id is
// a no-op, so disconnect paths can call it unconditionally.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
}

// Broadcast delivers a message to every registered session except the
// sender. Membership is snapshotted under the lock at the moment of the
// call; delivery happens outside the lock through each recipient's
// bounded queue, so a slow or closing recipient is skipped rather than
// stalling the broadcaster or the other deliveries. Returns how many
// sessions actually received the message.
func (r *Registry) Broadcast(fromSessionID, message string) int {
	r.mu.Lock()
	recipients := make([]*core.Session, 0, len(r.sessions))
	for id, session := range r.sessions {
		if id != fromSessionID {
			recipients = append(recipients, session)
		}
	}
	r.mu.Unlock()

	delivered := 0
	for _, session := range recipients {
		if session.Deliver(message) {
			delivered++
		}
	}

	r.delivered.Add(int64(delivered))
	return delivered
}

// Count returns the number of currently registered sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// DeliveredTotal returns the number of per-recipient deliveries made
// since startup, for the status endpoint.
func (r *Registry) DeliveredTotal() int64 {
	return r.delivered.Load()
}
