package sshd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateHostKeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")

	generated, err := LoadOrGenerateHostKey(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := LoadOrGenerateHostKey(path)
	require.NoError(t, err)
	assert.Equal(t, generated.PublicKey().Marshal(), reloaded.PublicKey().Marshal())
}

func TestLoadOrGenerateHostKeyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0600))

	_, err := LoadOrGenerateHostKey(path)
	assert.Error(t, err)
}
