package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/internal/backend"
	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/hotkey"
	"github.com/aether-ai/aether/internal/daemon/watcher"
	"github.com/aether-ai/aether/internal/models"
)

type stubRegistrar struct {
	events chan hotkey.Event
}

func (s *stubRegistrar) Register(b hotkey.Binding) (hotkey.ID, error) {
	return hotkey.ID(b.String()), nil
}
func (s *stubRegistrar) Unregister(hotkey.ID) error  { return nil }
func (s *stubRegistrar) Events() <-chan hotkey.Event { return s.events }

type discardSink struct{}

func (discardSink) Post(action.Request) error { return nil }

func testDaemon(t *testing.T) *daemon {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &daemon{
		settings: models.NewSettings(),
		ctx:      ctx,
		cancel:   cancel,
		backend:  backend.NewClient(models.DefaultBackendURL, time.Second),
		hotkeys:  hotkey.NewDispatcher(&stubRegistrar{events: make(chan hotkey.Event)}, discardSink{}),
	}
}

func TestReloadSettingsReconfiguresBackend(t *testing.T) {
	t.Setenv("AETHER_BACKEND_URL", "")
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  url: http://reloaded.test:9000\n"), 0o644))

	d := testDaemon(t)
	d.reloadSettings(watcher.Event{Type: watcher.EventSettingsChanged, Path: path})

	assert.Equal(t, "http://reloaded.test:9000", d.backend.BaseURL())
}

func TestReloadSettingsRemovedFallsBackToDefaults(t *testing.T) {
	t.Setenv("AETHER_BACKEND_URL", "")
	d := testDaemon(t)
	d.backend.Configure("http://custom.test", time.Second)

	d.reloadSettings(watcher.Event{Type: watcher.EventSettingsRemoved, Path: "settings.yaml"})

	assert.Equal(t, models.DefaultBackendURL, d.backend.BaseURL())
}

func TestReloadSettingsIgnoresInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [\n"), 0o644))

	d := testDaemon(t)
	d.backend.Configure("http://custom.test", time.Second)
	d.reloadSettings(watcher.Event{Type: watcher.EventSettingsChanged, Path: path})

	assert.Equal(t, "http://custom.test", d.backend.BaseURL())
}

func TestStatusListsHotkeys(t *testing.T) {
	d := testDaemon(t)
	d.tray = true
	require.NoError(t, d.hotkeys.Setup(hotkey.DefaultSpecs(d.settings.Hotkeys)))

	status := d.status()
	assert.Equal(t, models.DefaultBackendURL, status["backend_url"])
	assert.Equal(t, true, status["tray"])
	assert.Equal(t, "registered", status["hotkey_state"])
	assert.Equal(t, []any{"ctrl+shift+a show_window", "ctrl+shift+space quick_capture"}, status["hotkeys"])
}

func TestTrayDaemonPortBeforeStart(t *testing.T) {
	assert.Equal(t, 0, trayDaemon{d: testDaemon(t)}.Port())
}
