package core

// Outcome classifies the result of verifying a credential against the
// remote key-verification service.
type Outcome string

const (
	OutcomeValid               Outcome = "valid"
	OutcomeInvalid             Outcome = "invalid"
	OutcomeExpired             Outcome = "expired"
	OutcomeQuotaExceeded       Outcome = "quota_exceeded"
	OutcomeVerifierUnavailable Outcome = "verifier_unavailable"
)

// Verdict is the structured result of a credential verification.
type Verdict struct {
	Outcome Outcome `json:"outcome"`

	// Identity is the remote-assigned identifier for the credential's
	// owner. Set if and only if Outcome is OutcomeValid.
	Identity string `json:"identity,omitempty"`

	// RemainingQuota is an informational hint from the verifier about
	// how many uses the credential has left. Negative means unknown.
	RemainingQuota int64 `json:"remaining_quota,omitempty"`
}

// Allowed reports whether the verdict admits the connection.
func (v *Verdict) Allowed() bool {
	return v.Outcome == OutcomeValid && v.Identity != ""
}

// Retryable reports whether the denial was caused by a verifier outage
// rather than by the credential itself. Operators alert on these
// separately from attacker-driven Invalid outcomes.
func (v *Verdict) Retryable() bool {
	return v.Outcome == OutcomeVerifierUnavailable
}
