// Package window owns the application's singleton windows and their
// visibility state. The Registry is the only place window state changes;
// it is not safe for concurrent use and is driven by the action router.
package window

import "errors"

// Window labels.
const (
	MainLabel         = "main"
	QuickCaptureLabel = "quick-capture"
)

// NavigateEvent is emitted to a window to switch the view it renders.
const NavigateEvent = "navigate"

var (
	// ErrUnknownWindow is returned for a label that is neither registered
	// nor lazily creatable.
	ErrUnknownWindow = errors.New("unknown window")

	// ErrNotVisible is returned when an operation needs a visible window.
	ErrNotVisible = errors.New("window not visible")
)

// Geometry describes how a window is constructed.
type Geometry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MinWidth    int    `json:"min_width"`
	MinHeight   int    `json:"min_height"`
	Resizable   bool   `json:"resizable"`
	Decorated   bool   `json:"decorated"`
	AlwaysOnTop bool   `json:"always_on_top"`
}

// Spec declares a managed window. Lazy windows are constructed on first
// request; the others are constructed with the registry and start hidden.
type Spec struct {
	Label    string
	Lazy     bool
	Geometry Geometry
}

// DefaultSpecs returns the main window and the lazily created quick-capture window.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Label: MainLabel,
			Geometry: Geometry{
				Title:     "Aether",
				URL:       "index.html",
				Width:     1200,
				Height:    800,
				MinWidth:  800,
				MinHeight: 600,
				Resizable: true,
				Decorated: true,
			},
		},
		{
			Label: QuickCaptureLabel,
			Lazy:  true,
			Geometry: Geometry{
				Title:       "Quick Capture - Aether",
				URL:         "quick-capture.html",
				Width:       400,
				Height:      300,
				MinWidth:    350,
				MinHeight:   250,
				Resizable:   true,
				Decorated:   true,
				AlwaysOnTop: true,
			},
		},
	}
}

// Handle is the state of one live window.
type Handle struct {
	Label     string   `json:"label"`
	Visible   bool     `json:"visible"`
	Focused   bool     `json:"focused"`
	Minimized bool     `json:"minimized"`
	Lazy      bool     `json:"lazy"`
	Geometry  Geometry `json:"geometry"`
}

// Surface performs window operations on the UI layer that renders windows.
type Surface interface {
	Create(label string, geometry Geometry) error
	Show(label string) error
	Hide(label string) error
	Focus(label string) error
	Unminimize(label string) error
	Center(label string) error
	Emit(label, event, payload string) error
}
