package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
)

// DefaultTimeout bounds the remote call so a hung verification service
// cannot stall a connection attempt indefinitely.
const DefaultTimeout = 5 * time.Second

const verifyPath = "/v1/keys.verifyKey"

// HTTPVerifier is an HTTP implementation of the Verifier interface. It
// calls the key-verification API's verifyKey endpoint, authenticating
// with a root key and scoping the check to a single API id.
type HTTPVerifier struct {
	client  *http.Client
	baseURL string
	rootKey string
	apiID   string
}

// NewHTTPVerifier creates a new HTTP verifier. A zero timeout falls
// back to DefaultTimeout.
func NewHTTPVerifier(baseURL, rootKey, apiID string, timeout time.Duration) ports.Verifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPVerifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		rootKey: rootKey,
		apiID:   apiID,
	}
}

type verifyRequest struct {
	APIID string `json:"apiId"`
	Key   string `json:"key"`
}

type verifyResponse struct {
	Valid     bool   `json:"valid"`
	Code      string `json:"code"`
	OwnerID   string `json:"ownerId"`
	Remaining *int64 `json:"remaining"`
}

// Verify performs one remote verification call and maps the result to
// a verdict. Any failure to complete the call (network error, timeout,
// non-2xx status, malformed body) yields OutcomeVerifierUnavailable;
// it never returns OutcomeValid for a state it does not recognize.
func (v *HTTPVerifier) Verify(ctx context.Context, credential string) *core.Verdict {
	fp := core.FingerprintShort(credential)

	body, err := json.Marshal(verifyRequest{APIID: v.apiID, Key: credential})
	if err != nil {
		log.Printf("verifier: failed to encode request for credential %s: %v", fp, err)
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: -1}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		log.Printf("verifier: failed to build request for credential %s: %v", fp, err)
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: -1}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.rootKey)

	resp, err := v.client.Do(req)
	if err != nil {
		log.Printf("verifier: remote call failed for credential %s: %v", fp, err)
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: -1}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("verifier: remote returned status %d for credential %s", resp.StatusCode, fp)
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: -1}
	}

	var remote verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		log.Printf("verifier: malformed response for credential %s: %v", fp, err)
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: -1}
	}

	return mapResponse(&remote, credential)
}

// mapResponse translates the remote status into a verdict. Unknown
// codes are treated as a verifier problem, not as valid or invalid.
func mapResponse(remote *verifyResponse, credential string) *core.Verdict {
	remaining := int64(-1)
	if remote.Remaining != nil {
		remaining = *remote.Remaining
	}

	if remote.Valid && (remote.Code == "" || remote.Code == "VALID") {
		identity := remote.OwnerID
		if identity == "" {
			// The remote validated the key but assigned no owner;
			// derive a stable identity from the key fingerprint so the
			// Valid-implies-identity invariant holds.
			identity = "key-" + core.FingerprintShort(credential)
		}
		return &core.Verdict{
			Outcome:        core.OutcomeValid,
			Identity:       identity,
			RemainingQuota: remaining,
		}
	}

	switch remote.Code {
	case "NOT_FOUND", "DISABLED", "FORBIDDEN":
		return &core.Verdict{Outcome: core.OutcomeInvalid, RemainingQuota: remaining}
	case "EXPIRED":
		return &core.Verdict{Outcome: core.OutcomeExpired, RemainingQuota: remaining}
	case "USAGE_EXCEEDED", "RATE_LIMITED":
		return &core.Verdict{Outcome: core.OutcomeQuotaExceeded, RemainingQuota: remaining}
	default:
		return &core.Verdict{Outcome: core.OutcomeVerifierUnavailable, RemainingQuota: remaining}
	}
}
