package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	first := Fingerprint("sk_live_secret")
	second := Fingerprint("sk_live_secret")

	require.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestFingerprintDistinguishesCredentials(t *testing.T) {
	assert.NotEqual(t, Fingerprint("K1"), Fingerprint("K2"))
}

func TestFingerprintNeverContainsCredential(t *testing.T) {
	credential := "super-secret-credential"
	fp := Fingerprint(credential)

	assert.NotContains(t, strings.ToLower(fp), strings.ToLower(credential))
}

func TestFingerprintShortIsPrefix(t *testing.T) {
	full := Fingerprint("K1")
	short := FingerprintShort("K1")

	require.Len(t, short, 12)
	assert.True(t, strings.HasPrefix(full, short))
}
