package core

import "sync"

// outboundQueueSize bounds the per-session delivery queue. A recipient
// that cannot drain this many messages is skipped rather than letting
// it stall the broadcaster.
const outboundQueueSize = 64

// Session represents a live, authenticated connection participating in
// broadcast. Sessions are created only after a Valid verdict and live
// in process memory for the duration of the connection.
type Session struct {
	ID          string // locally generated, unique for process lifetime
	Identity    string // remote-assigned identity from the verdict
	DisplayName string // SSH-offered username, never the credential

	outbound  chan string
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session bound to a fresh bounded outbound queue.
func NewSession(id, identity, displayName string) *Session {
	return &Session{
		ID:          id,
		Identity:    identity,
		DisplayName: displayName,
		outbound:    make(chan string, outboundQueueSize),
		done:        make(chan struct{}),
	}
}

// Deliver enqueues a message for this session without blocking the
// caller. It returns false if the session is closed or its queue is
// full; the message is dropped in that case.
func (s *Session) Deliver(message string) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outbound <- message:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// Outbound returns the channel the session's writer drains. Only the
// owning connection handler reads from it.
func (s *Session) Outbound() <-chan string {
	return s.outbound
}

// Close marks the session closed and unblocks its writer. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done returns a channel closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
