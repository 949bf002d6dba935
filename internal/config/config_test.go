package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":2222", settings.ListenAddr)
	assert.Equal(t, 2, settings.MaxAuthAttempts)
	assert.Equal(t, 60*time.Second, settings.ValidTTL)
	assert.Equal(t, 5*time.Second, settings.DenyTTL)
	assert.Equal(t, 5*time.Second, settings.VerifierTimeout)
	assert.Empty(t, settings.RedisURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KEYCHAT_LISTEN_ADDR", ":2022")
	t.Setenv("KEYCHAT_MAX_AUTH_ATTEMPTS", "5")
	t.Setenv("KEYCHAT_DENY_TTL", "500ms")
	t.Setenv("KEYCHAT_UNKEY_ROOT_KEY", "root")
	t.Setenv("KEYCHAT_UNKEY_API_ID", "api")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":2022", settings.ListenAddr)
	assert.Equal(t, 5, settings.MaxAuthAttempts)
	assert.Equal(t, 500*time.Millisecond, settings.DenyTTL)
	assert.Equal(t, "root", settings.UnkeyRootKey)
	assert.Equal(t, "api", settings.UnkeyAPIID)
}
