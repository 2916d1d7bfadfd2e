package window

import (
	"fmt"
	"log"
	"sort"
)

// Registry holds at most one Handle per label.
type Registry struct {
	surface Surface
	specs   map[string]Spec
	handles map[string]*Handle
}

// NewRegistry constructs every non-lazy window and hides it. With no specs,
// DefaultSpecs is used.
func NewRegistry(surface Surface, specs ...Spec) (*Registry, error) {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}

	r := &Registry{
		surface: surface,
		specs:   make(map[string]Spec, len(specs)),
		handles: make(map[string]*Handle, len(specs)),
	}
	for _, spec := range specs {
		r.specs[spec.Label] = spec
	}

	for _, spec := range specs {
		if spec.Lazy {
			continue
		}
		if _, err := r.create(spec); err != nil {
			return nil, err
		}
		if err := surface.Hide(spec.Label); err != nil {
			log.Printf("[window] Failed to hide %s at startup: %v", spec.Label, err)
		}
	}
	return r, nil
}

// create constructs the window and registers its handle only on success.
func (r *Registry) create(spec Spec) (*Handle, error) {
	if err := r.surface.Create(spec.Label, spec.Geometry); err != nil {
		return nil, fmt.Errorf("create window %s: %w", spec.Label, err)
	}
	h := &Handle{Label: spec.Label, Lazy: spec.Lazy, Geometry: spec.Geometry}
	r.handles[spec.Label] = h
	log.Printf("[window] Created %s", spec.Label)
	return h, nil
}

// EnsureVisible shows, focuses and restores the window, constructing it
// first if it is lazily creatable and does not exist yet.
func (r *Registry) EnsureVisible(label string) error {
	h, ok := r.handles[label]
	if !ok {
		spec, known := r.specs[label]
		if !known || !spec.Lazy {
			log.Printf("[window] EnsureVisible: unknown window %q", label)
			return fmt.Errorf("%w: %s", ErrUnknownWindow, label)
		}
		var err error
		if h, err = r.create(spec); err != nil {
			log.Printf("[window] %v", err)
			return err
		}
	}

	if err := r.surface.Show(label); err != nil {
		log.Printf("[window] Failed to show %s: %v", label, err)
		return fmt.Errorf("show window %s: %w", label, err)
	}
	h.Visible = true

	if err := r.surface.Unminimize(label); err != nil {
		log.Printf("[window] Failed to unminimize %s: %v", label, err)
	} else {
		h.Minimized = false
	}

	if err := r.surface.Focus(label); err != nil {
		log.Printf("[window] Failed to focus %s: %v", label, err)
	} else {
		r.setFocus(label)
	}

	// Centering is presentation only.
	_ = r.surface.Center(label)
	return nil
}

func (r *Registry) setFocus(label string) {
	for l, h := range r.handles {
		h.Focused = l == label
	}
}

// Hide hides the window. Hiding an absent or already hidden window does nothing.
func (r *Registry) Hide(label string) error {
	h, ok := r.handles[label]
	if !ok {
		if _, known := r.specs[label]; known {
			return nil
		}
		log.Printf("[window] Hide: unknown window %q", label)
		return fmt.Errorf("%w: %s", ErrUnknownWindow, label)
	}
	if !h.Visible {
		return nil
	}
	if err := r.surface.Hide(label); err != nil {
		log.Printf("[window] Failed to hide %s: %v", label, err)
		return fmt.Errorf("hide window %s: %w", label, err)
	}
	h.Visible = false
	h.Focused = false
	return nil
}

// RequestClose handles a user close request. Managed windows are never
// destroyed: the request becomes Hide so the process keeps running in the tray.
func (r *Registry) RequestClose(label string) error {
	log.Printf("[window] Close requested for %s, hiding instead", label)
	return r.Hide(label)
}

// MarkMinimized records that the user minimized a window.
func (r *Registry) MarkMinimized(label string) error {
	h, ok := r.handles[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, label)
	}
	h.Minimized = true
	h.Focused = false
	return nil
}

// Navigate emits the navigate event to a visible window.
func (r *Registry) Navigate(label, destination string) error {
	h, ok := r.handles[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, label)
	}
	if !h.Visible {
		return fmt.Errorf("navigate %s: %w", label, ErrNotVisible)
	}
	if err := r.surface.Emit(label, NavigateEvent, destination); err != nil {
		log.Printf("[window] Failed to emit %s to %s: %v", NavigateEvent, label, err)
		return fmt.Errorf("navigate %s: %w", label, err)
	}
	log.Printf("[window] Navigated %s to %s", label, destination)
	return nil
}

// Get returns a copy of the handle for label.
func (r *Registry) Get(label string) (Handle, bool) {
	h, ok := r.handles[label]
	if !ok {
		return Handle{}, false
	}
	return *h, true
}

// Snapshot returns copies of all live handles ordered by label.
func (r *Registry) Snapshot() []Handle {
	out := make([]Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
