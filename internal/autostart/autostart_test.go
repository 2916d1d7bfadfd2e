package autostart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher persists its state in a shared map, standing in for the OS
// login-item registry that survives process restarts.
type fakeLauncher struct {
	registry   map[string]bool
	enableErr  error
	disableErr error
	enables    int
	disables   int
}

func newFakeLauncher(registry map[string]bool) *fakeLauncher {
	return &fakeLauncher{registry: registry}
}

func (f *fakeLauncher) IsEnabled() bool { return f.registry[AppName] }

func (f *fakeLauncher) Enable() error {
	f.enables++
	if f.enableErr != nil {
		return f.enableErr
	}
	f.registry[AppName] = true
	return nil
}

func (f *fakeLauncher) Disable() error {
	f.disables++
	if f.disableErr != nil {
		return f.disableErr
	}
	delete(f.registry, AppName)
	return nil
}

func TestEnableDisableRoundTrip(t *testing.T) {
	m := New(newFakeLauncher(map[string]bool{}))

	require.NoError(t, m.Enable())
	assert.True(t, m.IsEnabled())

	require.NoError(t, m.Disable())
	assert.False(t, m.IsEnabled())
}

func TestStateSurvivesRestart(t *testing.T) {
	registry := map[string]bool{}

	require.NoError(t, New(newFakeLauncher(registry)).Enable())
	assert.True(t, New(newFakeLauncher(registry)).IsEnabled())

	require.NoError(t, New(newFakeLauncher(registry)).Disable())
	assert.False(t, New(newFakeLauncher(registry)).IsEnabled())
}

func TestEnableIsIdempotent(t *testing.T) {
	l := newFakeLauncher(map[string]bool{})
	m := New(l)

	require.NoError(t, m.Enable())
	require.NoError(t, m.Enable())
	assert.Equal(t, 1, l.enables)

	require.NoError(t, m.Disable())
	require.NoError(t, m.Disable())
	assert.Equal(t, 1, l.disables)
}

func TestFailureLeavesStateUntouched(t *testing.T) {
	l := newFakeLauncher(map[string]bool{})
	l.enableErr = errors.New("permission denied")
	m := New(l)

	err := m.Enable()
	require.Error(t, err)
	assert.ErrorIs(t, err, l.enableErr)
	assert.False(t, m.IsEnabled())

	l.enableErr = nil
	require.NoError(t, m.Enable())
	l.disableErr = errors.New("read-only filesystem")
	require.Error(t, m.Disable())
	assert.True(t, m.IsEnabled())
}

func TestToggle(t *testing.T) {
	m := New(newFakeLauncher(map[string]bool{}))

	enabled, err := m.Toggle(true)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = m.Toggle(false)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestQueryIsNotCached(t *testing.T) {
	registry := map[string]bool{}
	m := New(newFakeLauncher(registry))
	assert.False(t, m.IsEnabled())

	registry[AppName] = true
	assert.True(t, m.IsEnabled())
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("no executable path")
	m := Unavailable(cause)

	assert.False(t, m.IsEnabled())
	assert.ErrorIs(t, m.Enable(), cause)
	assert.NoError(t, m.Disable())

	enabled, err := m.Toggle(true)
	assert.ErrorIs(t, err, cause)
	assert.False(t, enabled)
}
