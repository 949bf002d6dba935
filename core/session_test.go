package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDeliverAndDrain(t *testing.T) {
	session := NewSession("s1", "alice", "alice")

	require.True(t, session.Deliver("hello"))
	assert.Equal(t, "hello", <-session.Outbound())
}

func TestSessionDeliverAfterCloseFails(t *testing.T) {
	session := NewSession("s1", "alice", "alice")
	session.Close()

	assert.False(t, session.Deliver("hello"))
}

func TestSessionDeliverFullQueueDropsWithoutBlocking(t *testing.T) {
	session := NewSession("s1", "alice", "alice")

	delivered := 0
	for i := 0; i < outboundQueueSize; i++ {
		if session.Deliver("msg") {
			delivered++
		}
	}
	require.Equal(t, outboundQueueSize, delivered)

	// The queue is full and nobody is draining; delivery must drop
	// rather than block the caller.
	assert.False(t, session.Deliver("overflow"))
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	session := NewSession("s1", "alice", "alice")

	session.Close()
	session.Close()

	select {
	case <-session.Done():
	default:
		t.Fatal("done channel is not closed")
	}
}

func TestVerdictAllowed(t *testing.T) {
	assert.True(t, (&Verdict{Outcome: OutcomeValid, Identity: "alice"}).Allowed())
	assert.False(t, (&Verdict{Outcome: OutcomeValid}).Allowed(), "identity is required for admission")
	assert.False(t, (&Verdict{Outcome: OutcomeInvalid, Identity: "alice"}).Allowed())
	assert.False(t, (&Verdict{Outcome: OutcomeVerifierUnavailable}).Allowed())
}
