package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/layer-3/keychat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAdmitAndRemove(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Admit(core.NewSession("s1", "alice", "alice")))
	require.NoError(t, r.Admit(core.NewSession("s2", "bob", "bob")))
	assert.Equal(t, 2, r.Count())

	r.Remove("s1")
	assert.Equal(t, 1, r.Count())
}

func TestRegistryRejectsDuplicateSessionID(t *testing.T) {
	r := NewRegistry()

	original := core.NewSession("s1", "alice", "alice")
	require.NoError(t, r.Admit(original))

	err := r.Admit(core.NewSession("s1", "mallory", "mallory"))
	require.ErrorIs(t, err, core.ErrDuplicateSession)

	// The registered session is untouched.
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 1, r.Broadcast("other", "ping"))
	assert.Equal(t, "ping", <-original.Outbound())
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Admit(core.NewSession("s1", "alice", "alice")))

	r.Remove("s1")
	r.Remove("s1")
	r.Remove("never-admitted")

	assert.Equal(t, 0, r.Count())
}

func TestRegistryBroadcastExcludesSender(t *testing.T) {
	r := NewRegistry()

	a := core.NewSession("a", "alice", "alice")
	b := core.NewSession("b", "bob", "bob")
	c := core.NewSession("c", "carol", "carol")
	require.NoError(t, r.Admit(a))
	require.NoError(t, r.Admit(b))
	require.NoError(t, r.Admit(c))

	delivered := r.Broadcast("a", "hello")
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "hello", <-b.Outbound())
	assert.Equal(t, "hello", <-c.Outbound())
	select {
	case msg := <-a.Outbound():
		t.Fatalf("sender received its own message: %q", msg)
	default:
	}
}

func TestRegistryBroadcastSkipsFailedRecipient(t *testing.T) {
	r := NewRegistry()

	a := core.NewSession("a", "alice", "alice")
	b := core.NewSession("b", "bob", "bob")
	c := core.NewSession("c", "carol", "carol")
	require.NoError(t, r.Admit(a))
	require.NoError(t, r.Admit(b))
	require.NoError(t, r.Admit(c))

	// b is closing; delivery to it fails but must not affect c.
	b.Close()

	delivered := r.Broadcast("a", "hello")
	assert.Equal(t, 1, delivered)
	assert.Equal(t, "hello", <-c.Outbound())

	// A failed delivery does not evict the recipient; removal happens
	// only on its own disconnect path.
	assert.Equal(t, 3, r.Count())
}

func TestRegistryBroadcastPreservesSenderOrder(t *testing.T) {
	r := NewRegistry()

	a := core.NewSession("a", "alice", "alice")
	b := core.NewSession("b", "bob", "bob")
	require.NoError(t, r.Admit(a))
	require.NoError(t, r.Admit(b))

	for i := 0; i < 10; i++ {
		r.Broadcast("a", fmt.Sprintf("msg-%d", i))
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), <-b.Outbound())
	}
}

func TestRegistryConcurrentAdmitRemove(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			if err := r.Admit(core.NewSession(id, "id", "name")); err != nil {
				t.Error(err)
			}
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	// Membership equals exactly the sessions admitted and not removed.
	assert.Equal(t, workers/2, r.Count())
}

func TestRegistryConcurrentBroadcasts(t *testing.T) {
	r := NewRegistry()

	recipient := core.NewSession("r", "id", "name")
	require.NoError(t, r.Admit(recipient))

	// Drain continuously so the queue never fills.
	done := make(chan struct{})
	received := 0
	go func() {
		defer close(done)
		for range recipient.Outbound() {
			received++
			if received == 64 {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				r.Broadcast(fmt.Sprintf("sender-%d", i), "hi")
			}
		}(i)
	}
	wg.Wait()
	<-done

	assert.Equal(t, 64, received)
	assert.EqualValues(t, 64, r.DeliveredTotal())
}
