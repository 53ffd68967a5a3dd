package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) }) //nolint:errcheck
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "tasks.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, 20, cfg.Pipeline.CallTimeoutSecs)
	assert.Equal(t, "duckduckgo", cfg.Search.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, "https://s.jina.ai", cfg.Jina.SearchBaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Webhook.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONTACTSCOUT_STORE_DRIVER", "postgres")
	t.Setenv("CONTACTSCOUT_STORE_DATABASE_URL", "postgres://localhost/scout")
	t.Setenv("CONTACTSCOUT_PIPELINE_MAX_CONCURRENT", "8")
	t.Setenv("CONTACTSCOUT_WEBHOOK_URL", "https://hooks.example.com/done")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/scout", cfg.Store.DatabaseURL)
	assert.Equal(t, 8, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, "https://hooks.example.com/done", cfg.Webhook.URL)
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)
	yaml := []byte("server:\n  port: 9090\npipeline:\n  max_concurrent: 2\n")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Pipeline.MaxConcurrent)
	// Untouched keys keep their defaults.
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
