package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophistic/Quack/internal/models"
)

func TestSettings_DefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	svc := NewSettingsService(path)

	assert.Equal(t, models.DefaultSettings(), svc.Get())
}

func TestSettings_UpdatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	svc := NewSettingsService(path)

	settings := svc.Get()
	settings.Theme = "dark"
	settings.OverlayEnabled = false
	require.NoError(t, svc.Update(settings))

	// A fresh service reads the same values back
	again := NewSettingsService(path)
	assert.Equal(t, "dark", again.Get().Theme)
	assert.False(t, again.Get().OverlayEnabled)
}

func TestSettings_WatchPicksUpExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	svc := NewSettingsService(path)
	require.NoError(t, svc.Watch())
	defer svc.Close()

	data := []byte("theme: light\noverlay_enabled: true\ndefault_provider: openai\ndefault_model: gpt-4o\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	assert.Eventually(t, func() bool {
		return svc.Get().Theme == "light" && svc.Get().DefaultModel == "gpt-4o"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSettings_CorruptFileKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not yaml"), 0644))

	svc := NewSettingsService(path)

	assert.Equal(t, models.DefaultSettings(), svc.Get())
}
