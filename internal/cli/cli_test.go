package cli

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/models"
)

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, s *models.Settings)
	}{
		{"backend.url", "https://api.aether.example/", func(t *testing.T, s *models.Settings) {
			assert.Equal(t, "https://api.aether.example", s.Backend.URL)
		}},
		{"backend.timeout", "5s", func(t *testing.T, s *models.Settings) {
			assert.Equal(t, 5*time.Second, s.Backend.Timeout)
		}},
		{"hotkeys.quick_capture", "Shift+Ctrl+K", func(t *testing.T, s *models.Settings) {
			assert.Equal(t, "ctrl+shift+k", s.Hotkeys.QuickCapture)
		}},
		{"hotkeys.show_window", "", func(t *testing.T, s *models.Settings) {
			assert.Empty(t, s.Hotkeys.ShowWindow)
		}},
		{"analytics.enabled", "true", func(t *testing.T, s *models.Settings) {
			assert.True(t, s.Analytics.Enabled)
		}},
		{"server.port", "7411", func(t *testing.T, s *models.Settings) {
			assert.Equal(t, 7411, s.Server.Port)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := models.NewSettings()
			require.NoError(t, applySetting(s, tt.key, tt.value))
			tt.check(t, s)
		})
	}
}

func TestApplySettingRejects(t *testing.T) {
	tests := []struct{ key, value string }{
		{"backend.url", "localhost:8000"},
		{"backend.url", "ftp://files.example"},
		{"backend.timeout", "-1s"},
		{"backend.timeout", "soon"},
		{"hotkeys.quick_capture", "ctrl+banana"},
		{"analytics.enabled", "maybe"},
		{"server.port", "70000"},
		{"theme", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := models.NewSettings()
			before := *s
			assert.Error(t, applySetting(s, tt.key, tt.value))
			assert.Equal(t, before, *s)
		})
	}
}

func TestRPCTimeoutCoversBackendTimeout(t *testing.T) {
	tests := []struct {
		backend time.Duration
		want    time.Duration
	}{
		{5 * time.Second, 45 * time.Second},
		{models.DefaultBackendTimeout, 45 * time.Second},
		{90 * time.Second, 105 * time.Second},
	}
	for _, tt := range tests {
		got := rpcTimeout(tt.backend)
		assert.Equal(t, tt.want, got, tt.backend.String())
		assert.Greater(t, got, tt.backend)
	}
}

func TestOutcomeFromStruct(t *testing.T) {
	o := outcomeFromStruct(map[string]any{
		"kind":        "offline",
		"response":    capture.OfflineResponse,
		"reason":      "rejected",
		"status_code": float64(503),
	})
	assert.True(t, o.Offline())
	assert.Equal(t, capture.ReasonRejected, o.Reason)
	assert.Equal(t, 503, o.StatusCode)

	o = outcomeFromStruct(map[string]any{"kind": "remote", "response": "ok"})
	assert.False(t, o.Offline())
	assert.Equal(t, "ok", o.Response)
}

func TestFormatWindow(t *testing.T) {
	line := formatWindow(map[string]any{"label": "main", "visible": true, "focused": true})
	assert.Contains(t, line, "main")
	assert.Contains(t, line, "visible")
	assert.Contains(t, line, "focused")

	line = formatWindow(map[string]any{"label": "quick-capture", "visible": false, "minimized": true})
	assert.Contains(t, line, "hidden")
	assert.Contains(t, line, "minimized")
	assert.NotContains(t, line, "focused")
}

func TestNotificationTitle(t *testing.T) {
	assert.Equal(t, "Standup", notificationTitle(map[string]any{"title": "Standup"}))
	assert.Equal(t, "Ping", notificationTitle(map[string]any{"message": "Ping"}))
	assert.Equal(t, `{"id":1}`, notificationTitle(map[string]any{"id": 1}))
	assert.Equal(t, "plain", notificationTitle("plain"))
}

func typeInto(p ideaPrompt, text string) ideaPrompt {
	m, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m.(ideaPrompt)
}

func TestIdeaPromptSubmit(t *testing.T) {
	p := newIdeaPrompt()

	// Submitting nothing keeps the prompt open.
	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	p = m.(ideaPrompt)
	assert.False(t, p.submitted)
	assert.Nil(t, cmd)

	p = typeInto(p, "Batch email replies after lunch")
	m, cmd = p.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	p = m.(ideaPrompt)
	assert.True(t, p.submitted)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Batch email replies after lunch", p.Value())
	assert.Empty(t, p.View())
}

func TestIdeaPromptCancel(t *testing.T) {
	p := typeInto(newIdeaPrompt(), "never mind")
	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	p = m.(ideaPrompt)
	assert.True(t, p.cancelled)
	assert.False(t, p.submitted)
	require.NotNil(t, cmd)
}

func TestOfflineList(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"offline", "list"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "No ideas stored offline.")

	store := capture.NewStore(config.OfflineIdeasFile())
	_, err := store.Append("first offline idea")
	require.NoError(t, err)
	_, err = store.Append("second\nline")
	require.NoError(t, err)

	out.Reset()
	rootCmd.SetArgs([]string{"offline", "list"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "first offline idea")
	assert.Contains(t, out.String(), "second\nline")
	assert.Contains(t, out.String(), "2 idea(s) waiting")
}
