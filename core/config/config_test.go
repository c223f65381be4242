package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"r2-explorer/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "https://{account_id}.r2.cloudflarestorage.com", cfg.Storage.EndpointTemplate)
	assert.Equal(t, "auto", cfg.Storage.Region)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.False(t, cfg.Storage.CacheClients)
	assert.Equal(t, "config.json", cfg.Credentials.FileName)
	assert.Equal(t, "r2-explorer", cfg.Credentials.KeyringService)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("STORAGE_REGION", "eu")
	t.Setenv("STORAGE_CACHE_CLIENTS", "true")
	t.Setenv("CREDENTIALS_DIR", "/tmp/r2-test")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "eu", cfg.Storage.Region)
	assert.True(t, cfg.Storage.CacheClients)
	assert.Equal(t, "/tmp/r2-test", cfg.Credentials.Dir)
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSTORAGE_TIMEOUT_SECONDS=5\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("STORAGE_TIMEOUT_SECONDS")
	})

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Storage.TimeoutSeconds)
}
