package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBinding is returned for accelerator strings that cannot be parsed.
var ErrInvalidBinding = errors.New("invalid hotkey binding")

// Modifier is a bitmask of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModSuper, "super"},
}

var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
}

var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

// Binding is a parsed global hotkey such as ctrl+shift+space.
// Construct only via ParseBinding.
type Binding struct {
	modifiers  Modifier
	key        string
	normalized string
}

// Modifiers returns the modifier bitmask.
func (b Binding) Modifiers() Modifier { return b.modifiers }

// Key returns the lower-case key name.
func (b Binding) Key() string { return b.key }

// String returns the canonical form, modifiers first in a fixed order.
func (b Binding) String() string { return b.normalized }

// Has reports whether m is part of the binding.
func (b Binding) Has(m Modifier) bool { return b.modifiers&m != 0 }

// ParseBinding parses an accelerator like "Ctrl+Shift+Space". Parsing is
// case-insensitive; at least one modifier and exactly one key are required.
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("%w: %q needs a modifier and a key", ErrInvalidBinding, s)
	}

	var b Binding
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		mod, ok := modifierAliases[p]
		if !ok {
			return Binding{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidBinding, p, s)
		}
		if b.modifiers&mod != 0 {
			return Binding{}, fmt.Errorf("%w: duplicate modifier %q in %q", ErrInvalidBinding, p, s)
		}
		b.modifiers |= mod
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	if !validKey(key) {
		return Binding{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidBinding, key, s)
	}
	b.key = key

	names := make([]string, 0, len(parts))
	for _, m := range modifierNames {
		if b.modifiers&m.mod != 0 {
			names = append(names, m.name)
		}
	}
	b.normalized = strings.Join(append(names, key), "+")
	return b, nil
}

func validKey(key string) bool {
	switch {
	case len(key) == 1 && (key[0] >= 'a' && key[0] <= 'z' || key[0] >= '0' && key[0] <= '9'):
		return true
	case len(key) >= 2 && key[0] == 'f':
		var n int
		if _, err := fmt.Sscanf(key[1:], "%d", &n); err == nil && n >= 1 && n <= 12 && fmt.Sprint(n) == key[1:] {
			return true
		}
		return false
	}
	switch key {
	case "space", "enter", "escape", "tab", "delete", "up", "down", "left", "right":
		return true
	}
	return false
}
