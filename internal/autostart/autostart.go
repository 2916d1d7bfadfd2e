// Package autostart toggles launching the desktop shell at login.
package autostart

import (
	"fmt"
	"log"
	"os"

	goautostart "github.com/emersion/go-autostart"
)

// AppName is the login item name registered with the OS.
const AppName = "Aether AI Companion"

// Launcher is the OS login-item mechanism.
type Launcher interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// Manager wraps a Launcher. It keeps no state of its own: every query goes
// to the OS.
type Manager struct {
	launcher Launcher
}

// New returns a Manager over the given launcher.
func New(launcher Launcher) *Manager {
	return &Manager{launcher: launcher}
}

// NewSystem returns a Manager registering the running executable under AppName.
func NewSystem() (*Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return New(&goautostart.App{
		Name:        "aether",
		DisplayName: AppName,
		Exec:        []string{exe},
	}), nil
}

// IsEnabled reports whether launch at login is registered.
func (m *Manager) IsEnabled() bool {
	return m.launcher.IsEnabled()
}

// Enable registers launch at login. Enabling twice is a no-op.
func (m *Manager) Enable() error {
	if m.launcher.IsEnabled() {
		return nil
	}
	if err := m.launcher.Enable(); err != nil {
		log.Printf("[autostart] Failed to enable: %v", err)
		return fmt.Errorf("enable autostart: %w", err)
	}
	log.Printf("[autostart] Enabled")
	return nil
}

// Disable removes launch at login. Disabling twice is a no-op.
func (m *Manager) Disable() error {
	if !m.launcher.IsEnabled() {
		return nil
	}
	if err := m.launcher.Disable(); err != nil {
		log.Printf("[autostart] Failed to disable: %v", err)
		return fmt.Errorf("disable autostart: %w", err)
	}
	log.Printf("[autostart] Disabled")
	return nil
}

// Toggle enables or disables launch at login and returns the resulting state.
func (m *Manager) Toggle(enable bool) (bool, error) {
	log.Printf("[autostart] Toggling: %v", enable)
	if enable {
		if err := m.Enable(); err != nil {
			return false, err
		}
	} else {
		if err := m.Disable(); err != nil {
			return true, err
		}
	}
	return m.IsEnabled(), nil
}

// Initialize is the one-shot startup check. It only reports the state.
func (m *Manager) Initialize() {
	if m.IsEnabled() {
		log.Printf("[autostart] Auto-start is enabled")
	} else {
		log.Printf("[autostart] Auto-start is disabled")
	}
}

// unavailable stands in when no launcher can be built; enabling fails
// with the original error.
type unavailable struct {
	err error
}

func (u unavailable) IsEnabled() bool { return false }
func (u unavailable) Enable() error   { return u.err }
func (u unavailable) Disable() error  { return nil }

// Unavailable returns a Manager that reports autostart as off and fails to
// enable it with err.
func Unavailable(err error) *Manager {
	return New(unavailable{err: err})
}
