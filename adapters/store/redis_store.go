package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the VerdictStore interface.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis verdict store.
func NewRedisStore(client *redis.Client) ports.VerdictStore {
	return &RedisStore{
		client: client,
		prefix: "keychat:verdict:",
	}
}

// Get returns the cached verdict for a fingerprint.
func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*core.Verdict, bool, error) {
	key := s.prefix + fingerprint

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached verdict: %w", err)
	}

	var verdict core.Verdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached verdict: %w", err)
	}

	return &verdict, true, nil
}

// Set stores a verdict under a fingerprint with the given TTL.
func (s *RedisStore) Set(ctx context.Context, fingerprint string, verdict *core.Verdict, ttl time.Duration) error {
	key := s.prefix + fingerprint

	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache verdict: %w", err)
	}

	return nil
}
