package config

import (
	"os"
	"strings"

	"github.com/aether-ai/aether/internal/models"
)

// BackendURLEnv overrides backend.url from settings.yaml.
const BackendURLEnv = "AETHER_BACKEND_URL"

// LoadSettings loads the global settings from ~/.aether/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFile(path)
}

// LoadSettingsFile loads settings from an explicit path, applying defaults
// and environment overrides.
func LoadSettingsFile(path string) (*models.Settings, error) {
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	if url := strings.TrimSpace(os.Getenv(BackendURLEnv)); url != "" {
		settings.Backend.URL = url
	}
	return settings, nil
}

// SaveSettings saves the global settings to ~/.aether/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}
