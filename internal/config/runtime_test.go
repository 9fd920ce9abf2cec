package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetect_Defaults(t *testing.T) {
	t.Setenv("QUACK_DATA_DIR", t.TempDir())
	t.Setenv("QUACK_LISTEN_ADDR", "")
	t.Setenv("QUACK_MAGIC_URL", "")
	t.Setenv("QUACK_WATCH_POLL", "")

	cfg := Detect()

	assert.Equal(t, "127.0.0.1:8719", cfg.ListenAddr)
	assert.Equal(t, time.Second, cfg.WatchPoll)
	assert.Equal(t, "quack", cfg.AppName)
	assert.NotEmpty(t, cfg.MagicBaseURL)
}

func TestDetect_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUACK_DATA_DIR", dir)
	t.Setenv("QUACK_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("QUACK_MAGIC_URL", "http://localhost:3000/api")
	t.Setenv("QUACK_WATCH_POLL", "250ms")
	t.Setenv("QUACK_ACCOUNT", "duck@example.com")

	cfg := Detect()

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3000/api", cfg.MagicBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchPoll)
	assert.Equal(t, "duck@example.com", cfg.AccountEmail)
	assert.Equal(t, filepath.Join(dir, "settings.yaml"), cfg.SettingsPath())
}

func TestDetect_BadPollDurationIgnored(t *testing.T) {
	t.Setenv("QUACK_DATA_DIR", t.TempDir())
	t.Setenv("QUACK_WATCH_POLL", "often")

	cfg := Detect()

	assert.Equal(t, time.Second, cfg.WatchPoll)
}
