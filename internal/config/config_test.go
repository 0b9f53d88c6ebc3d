package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.UploadDriver)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, 64, cfg.EventBufferSize)
	assert.Equal(t, "chat:events", cfg.EventRelayChannel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9000\nJWT_SECRET=from-file\nEVENT_BUFFER_SIZE=8\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("EVENT_RELAY_ENABLED", "true")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 8, cfg.EventBufferSize)
	assert.True(t, cfg.EventRelayEnabled)
}
