package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in   string
		want string
		mods Modifier
	}{
		{"ctrl+shift+space", "ctrl+shift+space", ModCtrl | ModShift},
		{"Ctrl+Shift+A", "ctrl+shift+a", ModCtrl | ModShift},
		{"shift+ctrl+a", "ctrl+shift+a", ModCtrl | ModShift},
		{"cmd+option+Return", "alt+super+enter", ModAlt | ModSuper},
		{" control + f12 ", "ctrl+f12", ModCtrl},
		{"alt+esc", "alt+escape", ModAlt},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := ParseBinding(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, tt.mods, b.Modifiers())
		})
	}
}

func TestParseBindingRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"space",
		"ctrl+",
		"hyper+a",
		"ctrl+ctrl+a",
		"ctrl+shift+pagedown",
		"ctrl+f13",
		"ctrl+f01",
		"ctrl+ab",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseBinding(in)
			assert.ErrorIs(t, err, ErrInvalidBinding)
		})
	}
}
