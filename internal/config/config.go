// Package config loads process configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds every deployment-tunable knob. The core contract
// leaves retry limits, cache TTLs and verifier endpoints as
// configuration rather than hardcoded assumptions.
type Settings struct {
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":2222"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":9000"`
	HostKeyPath string `envconfig:"HOST_KEY_PATH" default:"host_key"`

	// Remote verification service
	VerifierURL     string        `envconfig:"VERIFIER_URL" default:"https://api.unkey.dev"`
	UnkeyRootKey    string        `envconfig:"UNKEY_ROOT_KEY" default:""`
	UnkeyAPIID      string        `envconfig:"UNKEY_API_ID" default:""`
	VerifierTimeout time.Duration `envconfig:"VERIFIER_TIMEOUT" default:"5s"`

	// Authorization policy
	MaxAuthAttempts int           `envconfig:"MAX_AUTH_ATTEMPTS" default:"2"`
	ValidTTL        time.Duration `envconfig:"VALID_TTL" default:"60s"`
	DenyTTL         time.Duration `envconfig:"DENY_TTL" default:"5s"`

	// Empty means in-memory verdict cache and in-process events
	RedisURL string `envconfig:"REDIS_URL" default:""`
}

// Load reads settings from KEYCHAT_-prefixed environment variables.
func Load() (*Settings, error) {
	var settings Settings
	if err := envconfig.Process("KEYCHAT", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
