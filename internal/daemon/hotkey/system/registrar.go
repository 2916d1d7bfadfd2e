//go:build linux || darwin || windows

// Package system registers global hotkeys with the operating system.
package system

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	xhotkey "golang.design/x/hotkey"

	"github.com/aether-ai/aether/internal/daemon/hotkey"
)

var systemKeys = map[string]xhotkey.Key{
	"space": xhotkey.KeySpace, "enter": xhotkey.KeyReturn, "escape": xhotkey.KeyEscape,
	"tab": xhotkey.KeyTab, "delete": xhotkey.KeyDelete,
	"up": xhotkey.KeyUp, "down": xhotkey.KeyDown, "left": xhotkey.KeyLeft, "right": xhotkey.KeyRight,
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD, "e": xhotkey.KeyE,
	"f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH, "i": xhotkey.KeyI, "j": xhotkey.KeyJ,
	"k": xhotkey.KeyK, "l": xhotkey.KeyL, "m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO,
	"p": xhotkey.KeyP, "q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX, "y": xhotkey.KeyY,
	"z": xhotkey.KeyZ,
	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3, "4": xhotkey.Key4,
	"5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7, "8": xhotkey.Key8, "9": xhotkey.Key9,
	"f1": xhotkey.KeyF1, "f2": xhotkey.KeyF2, "f3": xhotkey.KeyF3, "f4": xhotkey.KeyF4,
	"f5": xhotkey.KeyF5, "f6": xhotkey.KeyF6, "f7": xhotkey.KeyF7, "f8": xhotkey.KeyF8,
	"f9": xhotkey.KeyF9, "f10": xhotkey.KeyF10, "f11": xhotkey.KeyF11, "f12": xhotkey.KeyF12,
}

func systemModifiers(b hotkey.Binding) []xhotkey.Modifier {
	var mods []xhotkey.Modifier
	if b.Has(hotkey.ModCtrl) {
		mods = append(mods, xhotkey.ModCtrl)
	}
	if b.Has(hotkey.ModShift) {
		mods = append(mods, xhotkey.ModShift)
	}
	if b.Has(hotkey.ModAlt) {
		mods = append(mods, modAlt)
	}
	if b.Has(hotkey.ModSuper) {
		mods = append(mods, modSuper)
	}
	return mods
}

type systemHotkey struct {
	hk   *xhotkey.Hotkey
	stop chan struct{}
}

// Registrar registers hotkeys with the operating system. Each
// registration gets a fresh random ID; keydown and keyup channels of all
// hotkeys are merged into Events.
type Registrar struct {
	events chan hotkey.Event

	mu      sync.Mutex
	hotkeys map[hotkey.ID]*systemHotkey
}

// NewRegistrar creates an OS-backed registrar.
func NewRegistrar() *Registrar {
	return &Registrar{
		events:  make(chan hotkey.Event, 16),
		hotkeys: make(map[hotkey.ID]*systemHotkey),
	}
}

// Register grabs b globally.
func (r *Registrar) Register(b hotkey.Binding) (hotkey.ID, error) {
	key, ok := systemKeys[b.Key()]
	if !ok {
		return "", fmt.Errorf("key %q not supported on this platform", b.Key())
	}

	hk := xhotkey.New(systemModifiers(b), key)
	if err := hk.Register(); err != nil {
		return "", fmt.Errorf("register %s: %w", b, err)
	}

	id := hotkey.ID(uuid.NewString())
	sh := &systemHotkey{hk: hk, stop: make(chan struct{})}

	r.mu.Lock()
	r.hotkeys[id] = sh
	r.mu.Unlock()

	go r.forward(id, sh)
	return id, nil
}

func (r *Registrar) forward(id hotkey.ID, sh *systemHotkey) {
	down, up := sh.hk.Keydown(), sh.hk.Keyup()
	for {
		var ev hotkey.Event
		select {
		case <-sh.stop:
			return
		case <-down:
			ev = hotkey.Event{ID: id, State: hotkey.Pressed}
		case <-up:
			ev = hotkey.Event{ID: id, State: hotkey.Released}
		}
		select {
		case r.events <- ev:
		case <-sh.stop:
			return
		}
	}
}

// Unregister releases the hotkey registered under id.
func (r *Registrar) Unregister(id hotkey.ID) error {
	r.mu.Lock()
	sh, ok := r.hotkeys[id]
	delete(r.hotkeys, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown hotkey id %s", id)
	}
	close(sh.stop)
	return sh.hk.Unregister()
}

// Events returns the merged event channel.
func (r *Registrar) Events() <-chan hotkey.Event {
	return r.events
}
