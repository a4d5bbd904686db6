package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, animator.DefaultConfig(), cfg.Animation.AnimatorConfig())
	assert.Equal(t, uint64(3), cfg.TrackingAPI.MaxRetries)
	assert.Empty(t, cfg.Redis.Address)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
tracking_api:
  base_url: "https://api.example.com/tracking/"
  timeout: 3s
  cache_ttl: 1m
redis:
  address: "localhost:6379"
  database: 2
animation:
  step: 0.01
  dwell: 500ms
  frame_interval: 20ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, "https://api.example.com/tracking/", cfg.TrackingAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.TrackingAPI.Timeout)
	assert.Equal(t, time.Minute, cfg.TrackingAPI.CacheTTL)
	assert.Equal(t, uint64(3), cfg.TrackingAPI.MaxRetries)
	assert.Equal(t, 2, cfg.Redis.Database)
	assert.Equal(t, animator.Config{Step: 0.01, Dwell: 500 * time.Millisecond, FrameInterval: 20 * time.Millisecond}, cfg.Animation.AnimatorConfig())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
tracking_api:
  base_url: "https://api.example.com/tracking/"
`)
	t.Setenv("GLOBALTRACK_TRACKING_API_URL", "https://other.example.com/")
	t.Setenv("GLOBALTRACK_ANIMATION_DWELL", "1s")
	t.Setenv("GLOBALTRACK_ANIMATION_STEP", "0.002")
	t.Setenv("GLOBALTRACK_TRACKING_API_MAX_RETRIES", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://other.example.com/", cfg.TrackingAPI.BaseURL)
	assert.Equal(t, time.Second, cfg.Animation.Dwell)
	assert.Equal(t, 0.002, cfg.Animation.Step)
	assert.Equal(t, uint64(5), cfg.TrackingAPI.MaxRetries)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("step", func(t *testing.T) {
		_, err := Load(writeConfig(t, "animation:\n  step: 2\n"))
		assert.Error(t, err)
	})

	t.Run("url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "tracking_api:\n  base_url: \"not a url\"\n"))
		assert.Error(t, err)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("GLOBALTRACK_ANIMATION_FRAME", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "animation: [\n"))
		assert.Error(t, err)
	})
}
