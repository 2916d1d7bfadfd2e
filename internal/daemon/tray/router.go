// Package tray runs the system tray icon and routes its interactions into
// the action router.
package tray

import (
	"log"

	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/metrics"
)

// EventKind is the kind of tray interaction.
type EventKind string

const (
	LeftClick   EventKind = "left_click"
	RightClick  EventKind = "right_click"
	DoubleClick EventKind = "double_click"
	MenuClick   EventKind = "menu_click"
)

// Menu item identifiers.
const (
	MenuShow      = "show"
	MenuCapture   = "capture"
	MenuDashboard = "dashboard"
	MenuSettings  = "settings"
	MenuQuit      = "quit"
)

var menuActions = map[string]action.Name{
	MenuShow:      action.ShowWindow,
	MenuCapture:   action.QuickCapture,
	MenuDashboard: action.Dashboard,
	MenuSettings:  action.Settings,
	MenuQuit:      action.Quit,
}

// Event is one tray interaction. MenuID is set for MenuClick only.
type Event struct {
	Kind   EventKind
	MenuID string
}

// Route resolves a tray event to an action request. It reports false for
// events that carry no action: right clicks, which the OS answers with the
// context menu, and unknown menu ids.
func Route(ev Event) (action.Request, bool) {
	metrics.RecordTray(string(ev.Kind))

	switch ev.Kind {
	case LeftClick, DoubleClick:
		return action.Request{Action: action.ShowWindow, Source: action.SourceTray}, true
	case RightClick:
		return action.Request{}, false
	case MenuClick:
		name, ok := menuActions[ev.MenuID]
		if !ok {
			log.Printf("[tray] Unknown menu item %q", ev.MenuID)
			return action.Request{}, false
		}
		return action.Request{Action: name, Source: action.SourceTray}, true
	default:
		log.Printf("[tray] Unknown event kind %q", ev.Kind)
		return action.Request{}, false
	}
}
