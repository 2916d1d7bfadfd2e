package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()
	w, err := New()
	require.NoError(t, err)
	w.delay = 20 * time.Millisecond
	for _, f := range files {
		require.NoError(t, w.WatchFile(f))
	}
	w.Start()
	t.Cleanup(w.Stop)
	return w
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
		return Event{}
	}
}

func TestWatchFileCreateAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("backend: {}\n"), 0o644))
	ev := nextEvent(t, w)
	assert.Equal(t, EventSettingsChanged, ev.Type)
	assert.Equal(t, path, ev.Path)
}

func TestWatchFileAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))
	w := startWatcher(t, path)

	tmp := filepath.Join(dir, ".settings.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("a: 2\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	ev := nextEvent(t, w)
	assert.Equal(t, EventSettingsChanged, ev.Type)
}

func TestWatchFileRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))
	ev := nextEvent(t, w)
	assert.Equal(t, EventSettingsRemoved, ev.Type)
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "settings.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "daemon.yaml"), []byte("port: 1\n"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	w := startWatcher(t, path)
	w.debounceMu.Lock()
	w.delay = 150 * time.Millisecond
	w.debounceMu.Unlock()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i), '\n'}, 0o644))
	}

	nextEvent(t, w)
	select {
	case ev := <-w.Events():
		t.Fatalf("expected a single coalesced event, got another %+v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestUnwatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	w := startWatcher(t, path)
	w.UnwatchFile(path)

	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	w.Start()
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
