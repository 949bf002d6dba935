package service

import (
	"context"
	"log"
	"time"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
)

// VerifyService wraps a Verifier with a short-lived verdict cache so
// reconnect storms don't translate into redundant remote calls. The
// cache is keyed by credential fingerprint, never the raw credential.
type VerifyService struct {
	verifier ports.Verifier
	store    ports.VerdictStore

	validTTL time.Duration
	denyTTL  time.Duration
}

// NewVerifyService creates a new cached verification service. Non-Valid
// verdicts use denyTTL, which should be short so a transient verifier
// outage clears quickly; a TTL of zero or below disables caching for
// that class of verdict.
func NewVerifyService(verifier ports.Verifier, store ports.VerdictStore, validTTL, denyTTL time.Duration) *VerifyService {
	return &VerifyService{
		verifier: verifier,
		store:    store,
		validTTL: validTTL,
		denyTTL:  denyTTL,
	}
}

// GetOrVerify returns the cached verdict for the credential when one is
// present and unexpired, and calls through to the verifier otherwise.
// Store failures degrade to a cache miss rather than blocking the
// authorization decision. Concurrent calls for the same credential may
// both call through; neither blocks verification of other credentials.
func (s *VerifyService) GetOrVerify(ctx context.Context, credential string) *core.Verdict {
	fingerprint := core.Fingerprint(credential)

	cached, ok, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		log.Printf("verify: cache lookup failed for credential %s: %v", fingerprint[:12], err)
	}
	if ok {
		return cached
	}

	verdict := s.verifier.Verify(ctx, credential)

	ttl := s.denyTTL
	if verdict.Outcome == core.OutcomeValid {
		ttl = s.validTTL
	}
	if ttl > 0 {
		if err := s.store.Set(ctx, fingerprint, verdict, ttl); err != nil {
			log.Printf("verify: cache store failed for credential %s: %v", fingerprint[:12], err)
		}
	}

	return verdict
}
