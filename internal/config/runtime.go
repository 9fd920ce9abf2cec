package config

import (
	"os"
	"path/filepath"
	"time"
)

// RuntimeConfig holds the resolved environment for a Quack companion process.
type RuntimeConfig struct {
	DataDir      string // ~/.quack, settings and caches live here
	TempDir      string
	ListenAddr   string        // local API bind address
	MagicBaseURL string        // remote completion service
	MagicAPIKey  string        // bearer key for the completion service
	WatchPoll    time.Duration // foreground window poll interval
	AppName      string        // our own process name, skipped by the window watcher
	AccountEmail string        // signed-in account forwarded to the completion service
}

// Runtime is the global runtime configuration instance
var Runtime *RuntimeConfig

func init() {
	Runtime = Detect()
}

// Detect builds the runtime configuration from the environment.
func Detect() *RuntimeConfig {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "."
		}
	}

	cfg := &RuntimeConfig{
		DataDir:      filepath.Join(homeDir, ".quack"),
		TempDir:      os.TempDir(),
		ListenAddr:   "127.0.0.1:8719",
		MagicBaseURL: "https://magic.sophistic.dev/api",
		MagicAPIKey:  os.Getenv("QUACK_MAGIC_API_KEY"),
		WatchPoll:    time.Second,
		AppName:      "quack",
		AccountEmail: os.Getenv("QUACK_ACCOUNT"),
	}

	if v := os.Getenv("QUACK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QUACK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("QUACK_MAGIC_URL"); v != "" {
		cfg.MagicBaseURL = v
	}
	if v := os.Getenv("QUACK_WATCH_POLL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.WatchPoll = d
		}
	}

	// Best effort; the settings service degrades to in-memory defaults
	_ = ensureDir(cfg.DataDir)

	return cfg
}

// SettingsPath returns the on-disk location of the app settings file.
func (rc *RuntimeConfig) SettingsPath() string {
	return filepath.Join(rc.DataDir, "settings.yaml")
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
