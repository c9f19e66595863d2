package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/config"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":3978", cfg.HTTP.Address)
	assert.Equal(t, "memory", cfg.State.Backend)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
http:
  address: ":8080"
state:
  backend: redis
  redis:
    address: "localhost:6379"
    lock: true
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "redis", cfg.State.Backend)
	assert.Equal(t, "localhost:6379", cfg.State.Redis.Address)
	assert.True(t, cfg.State.Redis.Lock)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOTPLAYGROUND_LOG_LEVEL", "warn")
	t.Setenv("BOTPLAYGROUND_STATE_BACKEND", "file")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "file", cfg.State.Backend)
}

func TestDecodeEncryptionKey(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		key, err := config.State{}.DecodeEncryptionKey()
		require.NoError(t, err)
		assert.Nil(t, key)
	})

	t.Run("Valid", func(t *testing.T) {
		raw := make([]byte, 32)
		s := config.State{EncryptionKey: base64.StdEncoding.EncodeToString(raw)}
		key, err := s.DecodeEncryptionKey()
		require.NoError(t, err)
		assert.Len(t, key, 32)
	})

	t.Run("Wrong Length", func(t *testing.T) {
		s := config.State{EncryptionKey: base64.StdEncoding.EncodeToString([]byte("short"))}
		_, err := s.DecodeEncryptionKey()
		require.Error(t, err)
	})
}
