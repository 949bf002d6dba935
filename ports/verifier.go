package ports

import (
	"context"

	"github.com/layer-3/keychat/core"
)

// Verifier turns a raw credential into a verdict by consulting the
// remote key-verification service. Implementations fail softly: a
// network error, timeout, or malformed response yields a verdict with
// OutcomeVerifierUnavailable rather than an error, and an unrecognized
// remote state must never map to OutcomeValid. Each call performs
// exactly one remote request.
type Verifier interface {
	Verify(ctx context.Context, credential string) *core.Verdict
}
