package services

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"

	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/models"
)

// SettingsService persists desktop preferences as YAML and hot-reloads them
// when another window edits the file.
type SettingsService struct {
	path string

	mu       sync.RWMutex
	settings models.AppSettings

	watcher *fsnotify.Watcher
}

// NewSettingsService loads settings from the given path, falling back to
// defaults when the file does not exist yet.
func NewSettingsService(path string) *SettingsService {
	s := &SettingsService{
		path:     path,
		settings: models.DefaultSettings(),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to load settings from %s: %v", path, err)
	}
	return s
}

// Get returns the current settings
func (s *SettingsService) Get() models.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update replaces the settings and writes them to disk
func (s *SettingsService) Update(settings models.AppSettings) error {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Watch reloads settings whenever the file changes on disk. Safe to skip;
// the service works without it.
func (s *SettingsService) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := s.load(); err != nil {
						logger.Warnf("Settings reload failed: %v", err)
					} else {
						logger.Debug("Settings reloaded from disk")
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("Settings watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the file watcher, if running
func (s *SettingsService) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *SettingsService) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var settings models.AppSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}
