// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// GlobalDirName is the name of the global Aether directory.
	GlobalDirName = ".aether"

	// AppDataDirName is the directory under the per-user data home.
	AppDataDirName = "aether"

	// HomeEnv overrides the location of the global directory and data directory.
	HomeEnv = "AETHER_HOME"
)

// File names
const (
	DaemonFileName       = "daemon.yaml"
	SettingsFileName     = "settings.yaml"
	OfflineIdeasFileName = "offline_ideas.txt"
)

// GlobalDir returns the path to the global Aether directory (~/.aether/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DaemonFileName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// DataDir returns the per-user application data directory
// (~/.local/share/aether, ~/Library/Application Support/aether, %APPDATA%\aether).
func DataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Join(dir, "data")
	}
	return filepath.Join(xdg.DataHome, AppDataDirName)
}

// OfflineIdeasFile returns the path of the local capture log.
func OfflineIdeasFile() string {
	return filepath.Join(DataDir(), OfflineIdeasFileName)
}

// EnsureGlobalDir creates the global Aether directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
