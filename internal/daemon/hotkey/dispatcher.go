// Package hotkey registers global hotkeys and turns their presses into
// action requests for the router.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/metrics"
	"github.com/aether-ai/aether/internal/models"
)

var (
	// ErrNoBindings is returned by Setup when no hotkey could be registered.
	ErrNoBindings = errors.New("no hotkeys registered")

	// ErrNotRegistered is returned by Listen before a successful Setup.
	ErrNotRegistered = errors.New("hotkeys not registered")

	// ErrEventsClosed is returned by Listen when the registrar's event
	// channel closes underneath it.
	ErrEventsClosed = errors.New("hotkey event channel closed")
)

// State is the dispatcher lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRegistered
	StateListening
	StateError
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRegistered:
		return "registered"
	case StateListening:
		return "listening"
	case StateError:
		return "error"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ID identifies one registration. IDs are issued by the Registrar and are
// opaque to the dispatcher.
type ID string

// KeyState distinguishes key presses from releases.
type KeyState int

const (
	Pressed KeyState = iota
	Released
)

// Event is one raw hotkey event from the OS layer.
type Event struct {
	ID    ID
	State KeyState
}

// Registrar is the OS hotkey layer.
type Registrar interface {
	Register(b Binding) (ID, error)
	Unregister(id ID) error
	Events() <-chan Event
}

// Sink receives the action requests produced by hotkey presses.
type Sink interface {
	Post(req action.Request) error
}

// Spec pairs an accelerator string with the action it triggers.
type Spec struct {
	Accelerator string
	Action      action.Name
}

// DefaultSpecs returns the hotkeys configured in settings.
func DefaultSpecs(cfg models.HotkeysConfig) []Spec {
	return []Spec{
		{Accelerator: cfg.QuickCapture, Action: action.QuickCapture},
		{Accelerator: cfg.ShowWindow, Action: action.ShowWindow},
	}
}

// Registered describes one live binding.
type Registered struct {
	ID      ID
	Binding Binding
	Action  action.Name
}

// Dispatcher owns the table from registration ID to action. The table is
// filled only from IDs returned by the Registrar.
type Dispatcher struct {
	registrar Registrar
	sink      Sink

	mu    sync.Mutex
	state State
	table map[ID]Registered
}

// NewDispatcher creates a dispatcher posting to sink.
func NewDispatcher(registrar Registrar, sink Sink) *Dispatcher {
	return &Dispatcher{
		registrar: registrar,
		sink:      sink,
		table:     make(map[ID]Registered),
	}
}

// Setup registers every spec. A spec that fails to parse or register is
// logged and skipped; the others still register. If nothing registers, the
// dispatcher enters StateError and ErrNoBindings is returned.
func (d *Dispatcher) Setup(specs []Spec) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateUninitialized {
		return fmt.Errorf("hotkey setup in state %s", d.state)
	}

	for _, spec := range specs {
		if spec.Accelerator == "" {
			log.Printf("[hotkey] %s disabled", spec.Action)
			continue
		}
		b, err := ParseBinding(spec.Accelerator)
		if err != nil {
			log.Printf("[hotkey] Skipping %s: %v", spec.Action, err)
			continue
		}
		id, err := d.registrar.Register(b)
		if err != nil {
			log.Printf("[hotkey] Failed to register %s for %s: %v", b, spec.Action, err)
			continue
		}
		if _, dup := d.table[id]; dup {
			log.Printf("[hotkey] Registrar returned duplicate id %s for %s, skipping", id, b)
			continue
		}
		d.table[id] = Registered{ID: id, Binding: b, Action: spec.Action}
		log.Printf("[hotkey] Registered %s -> %s", b, spec.Action)
	}

	if len(d.table) == 0 {
		d.state = StateError
		return ErrNoBindings
	}
	d.state = StateRegistered
	return nil
}

// Listen consumes registrar events until ctx ends or the event channel
// closes. Releases are ignored; presses of unknown IDs are logged and
// dropped.
func (d *Dispatcher) Listen(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateRegistered {
		state := d.state
		d.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotRegistered, state)
	}
	d.state = StateListening
	d.mu.Unlock()

	events := d.registrar.Events()
	log.Printf("[hotkey] Listening")

	for {
		select {
		case <-ctx.Done():
			d.setState(StateShuttingDown)
			return nil
		case ev, ok := <-events:
			if !ok {
				d.mu.Lock()
				if d.state != StateShuttingDown {
					d.state = StateError
				}
				d.mu.Unlock()
				return ErrEventsClosed
			}
			d.handle(ev)
		}
	}
}

func (d *Dispatcher) handle(ev Event) {
	if ev.State != Pressed {
		return
	}

	d.mu.Lock()
	reg, ok := d.table[ev.ID]
	d.mu.Unlock()
	if !ok {
		log.Printf("[hotkey] Ignoring event for unknown id %s", ev.ID)
		metrics.RecordHotkey("unknown")
		return
	}

	if err := d.post(reg); err != nil {
		log.Printf("[hotkey] %s -> %s not delivered: %v", reg.Binding, reg.Action, err)
		metrics.RecordHotkey("dropped")
		return
	}
	metrics.RecordHotkey("dispatched")
}

func (d *Dispatcher) post(reg Registered) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in hotkey sink: %v", r)
		}
	}()
	return d.sink.Post(action.Request{Action: reg.Action, Source: action.SourceHotkey})
}

func (d *Dispatcher) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Bindings returns the live bindings ordered by canonical accelerator.
func (d *Dispatcher) Bindings() []Registered {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Registered, 0, len(d.table))
	for _, r := range d.table {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Binding.String() < out[j].Binding.String() })
	return out
}

// Close unregisters every binding.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = StateShuttingDown
	var errs []error
	for id, reg := range d.table {
		if err := d.registrar.Unregister(id); err != nil {
			errs = append(errs, fmt.Errorf("unregister %s: %w", reg.Binding, err))
		}
		delete(d.table, id)
	}
	return errors.Join(errs...)
}
