package models

// OverlayState describes the magic-dot widget lifecycle
type OverlayState string

const (
	// OverlayFollowing is the initial collapsed dot tracking the cursor
	OverlayFollowing OverlayState = "following"
	// OverlayExpanded is the panel shown after follow mode exits, drag-movable
	OverlayExpanded OverlayState = "expanded"
	// OverlayPinned is the panel fixed to the top of the screen
	OverlayPinned OverlayState = "pinned"
)

// OverlayStatus is the externally visible overlay snapshot
type OverlayStatus struct {
	State        OverlayState `json:"state"`
	ActiveWindow string       `json:"active_window,omitempty"`
}

// AppSettings are the desktop preferences persisted under the data directory
type AppSettings struct {
	Theme             string `json:"theme" yaml:"theme"` // "light", "dark", "system"
	AutoStart         bool   `json:"autoStart" yaml:"auto_start"`
	ShowNotifications bool   `json:"showNotifications" yaml:"show_notifications"`
	OverlayEnabled    bool   `json:"overlayEnabled" yaml:"overlay_enabled"`
	DefaultProvider   string `json:"defaultProvider" yaml:"default_provider"`
	DefaultModel      string `json:"defaultModel" yaml:"default_model"`
}

// DefaultSettings returns the settings used before a settings file exists
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:             "system",
		AutoStart:         false,
		ShowNotifications: true,
		OverlayEnabled:    true,
		DefaultProvider:   DefaultModel.Provider,
		DefaultModel:      DefaultModel.Model,
	}
}
