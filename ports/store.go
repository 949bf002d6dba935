package ports

import (
	"context"
	"time"

	"github.com/layer-3/keychat/core"
)

// VerdictStore caches verification verdicts keyed by credential
// fingerprint. Keys are always fingerprints, never raw credentials.
type VerdictStore interface {
	// Get returns the cached verdict for a fingerprint, or ok=false
	// when the entry is absent or past its expiry.
	Get(ctx context.Context, fingerprint string) (verdict *core.Verdict, ok bool, err error)

	// Set stores a verdict under a fingerprint with the given TTL.
	Set(ctx context.Context, fingerprint string, verdict *core.Verdict, ttl time.Duration) error
}
