package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
)

type memoryEntry struct {
	verdict   core.Verdict
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the VerdictStore
// interface. Suitable for single-process deployments and tests.
type MemoryStore struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory verdict store.
func NewMemoryStore() ports.VerdictStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached verdict for a fingerprint. An entry past its
// expiry is never served.
func (s *MemoryStore) Get(ctx context.Context, fingerprint string) (*core.Verdict, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[fingerprint]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}

	verdict := entry.verdict
	return &verdict, true, nil
}

// Set stores a verdict under a fingerprint with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, fingerprint string, verdict *core.Verdict, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	s.entries[fingerprint] = memoryEntry{verdict: *verdict, expiresAt: expiresAt}

	// Start a cleanup goroutine so expired entries don't accumulate
	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if the entry hasn't been refreshed in the meantime
		if stored, exists := s.entries[fingerprint]; exists && !stored.expiresAt.After(expiresAt) {
			delete(s.entries, fingerprint)
		}
	}()

	return nil
}
