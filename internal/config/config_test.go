package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "savedCardDesign", cfg.Redis.DesignKey)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.MinIO.Enabled)
	assert.Equal(t, 50, cfg.Editor.HistoryLimit)
	assert.Equal(t, 10*time.Second, cfg.Render.ImageTimeout)
	assert.Equal(t, int64(25_000_000), cfg.Render.MaxImagePixels)
	assert.True(t, cfg.Render.AllowRemoteRefs)
	assert.False(t, cfg.Render.AllowPrivateHosts)
	assert.Empty(t, cfg.API.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("EDITOR_HISTORY_LIMIT", "10")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ALLOW_REMOTE_REFS", "false")
	t.Setenv("MAX_IMAGE_PIXELS", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 10, cfg.Editor.HistoryLimit)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Render.AllowRemoteRefs)
	assert.Equal(t, int64(1000), cfg.Render.MaxImagePixels)
}

func TestLoadValidates(t *testing.T) {
	t.Setenv("MINIO_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio access key id")
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	assert.Error(t, err)
}
