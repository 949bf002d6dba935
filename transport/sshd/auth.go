package sshd

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/service"
	"golang.org/x/crypto/ssh"
)

// DefaultMaxAttempts is how many credential submissions a connection
// gets before every further attempt is denied outright.
const DefaultMaxAttempts = 2

// attemptStateTTL bounds how long failure counts for abandoned
// handshakes are retained.
const attemptStateTTL = 10 * time.Minute

// identityExtension is the Permissions extension key carrying the
// verified identity from the password callback to the session setup.
const identityExtension = "keychat-identity"

type attemptState struct {
	failures int
	lastSeen time.Time
}

// AuthGuard drives the per-connection authorization state machine over
// the SSH password-auth exchange. Each submitted credential moves the
// connection through Verifying, and the guard tracks failed attempts
// per connection so that exhausting the limit forces a terminal denial
// regardless of further input. The client only ever sees a generic
// denial; the specific outcome stays in the server log.
type AuthGuard struct {
	verify      *service.VerifyService
	maxAttempts int

	mu       sync.Mutex
	attempts map[string]*attemptState
}

// NewAuthGuard creates a new auth guard. A non-positive maxAttempts
// falls back to DefaultMaxAttempts.
func NewAuthGuard(verify *service.VerifyService, maxAttempts int) *AuthGuard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &AuthGuard{
		verify:      verify,
		maxAttempts: maxAttempts,
		attempts:    make(map[string]*attemptState),
	}
}

// PasswordCallback is the ssh.PasswordCallback for the server config.
// The offered password is the credential; the SSH username is only a
// display name and plays no part in the authorization decision.
func (g *AuthGuard) PasswordCallback(conn ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
	key := string(conn.SessionID())

	if g.exhausted(key) {
		log.Printf("sshd: auth attempts exhausted for %q from %s", conn.User(), conn.RemoteAddr())
		return nil, core.ErrAccessDenied
	}

	verdict := g.verify.GetOrVerify(context.Background(), string(password))
	if verdict.Allowed() {
		g.forget(key)
		log.Printf("sshd: authorized %q from %s as identity %s", conn.User(), conn.RemoteAddr(), verdict.Identity)
		return &ssh.Permissions{
			Extensions: map[string]string{
				identityExtension: verdict.Identity,
			},
		}, nil
	}

	remaining := g.recordFailure(key)
	if verdict.Retryable() {
		// Verifier outage, not attacker behavior; worth alerting on.
		log.Printf("sshd: verifier unavailable while authorizing %q from %s (%d attempts left)", conn.User(), conn.RemoteAddr(), remaining)
	} else {
		log.Printf("sshd: denied %q from %s: %s (%d attempts left)", conn.User(), conn.RemoteAddr(), verdict.Outcome, remaining)
	}
	return nil, core.ErrAccessDenied
}

// exhausted reports whether the connection has used up its attempts.
func (g *AuthGuard) exhausted(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pruneLocked()

	state, exists := g.attempts[key]
	return exists && state.failures >= g.maxAttempts
}

// recordFailure counts a failed attempt and returns how many remain.
func (g *AuthGuard) recordFailure(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, exists := g.attempts[key]
	if !exists {
		state = &attemptState{}
		g.attempts[key] = state
	}
	state.failures++
	state.lastSeen = time.Now()

	remaining := g.maxAttempts - state.failures
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// forget clears attempt state once a connection authenticates.
func (g *AuthGuard) forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.attempts, key)
}

// pruneLocked drops state for handshakes abandoned long ago. Caller
// holds g.mu.
func (g *AuthGuard) pruneLocked() {
	cutoff := time.Now().Add(-attemptStateTTL)
	for key, state := range g.attempts {
		if state.lastSeen.Before(cutoff) {
			delete(g.attempts, key)
		}
	}
}
