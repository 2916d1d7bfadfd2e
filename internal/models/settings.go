package models

import "time"

// Default backend and hotkey values.
const (
	DefaultBackendURL         = "http://localhost:8000"
	DefaultBackendTimeout     = 30 * time.Second
	DefaultQuickCaptureHotkey = "ctrl+shift+space"
	DefaultShowWindowHotkey   = "ctrl+shift+a"
)

// BackendConfig holds the Aether backend connection settings.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// HotkeysConfig holds the global hotkey combinations ("ctrl+shift+space").
// An empty value disables that hotkey.
type HotkeysConfig struct {
	QuickCapture string `yaml:"quick_capture"`
	ShowWindow   string `yaml:"show_window"`
}

// AnalyticsConfig holds opt-in product analytics settings.
type AnalyticsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	DistinctID string `yaml:"distinct_id,omitempty"`
}

// ServerConfig holds settings for the daemon's command surface.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 = dynamic
}

// Settings represents global application settings.
// This corresponds to ~/.aether/settings.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Backend   BackendConfig   `yaml:"backend"`
	Hotkeys   HotkeysConfig   `yaml:"hotkeys"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Server    ServerConfig    `yaml:"server"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Backend: BackendConfig{
			URL:     DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		Hotkeys: HotkeysConfig{
			QuickCapture: DefaultQuickCaptureHotkey,
			ShowWindow:   DefaultShowWindowHotkey,
		},
		Analytics: AnalyticsConfig{
			Enabled: false,
		},
	}
}

// ApplyDefaults fills zero-valued fields left out of a partial settings file.
func (s *Settings) ApplyDefaults() {
	d := NewSettings()
	if s.Version == 0 {
		s.Version = d.Version
	}
	if s.Backend.URL == "" {
		s.Backend.URL = d.Backend.URL
	}
	if s.Backend.Timeout <= 0 {
		s.Backend.Timeout = d.Backend.Timeout
	}
}
