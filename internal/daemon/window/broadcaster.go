package window

import (
	"log"
	"sync"
)

// EventKind names a surface operation.
type EventKind string

const (
	EventCreate     EventKind = "create"
	EventShow       EventKind = "show"
	EventHide       EventKind = "hide"
	EventFocus      EventKind = "focus"
	EventUnminimize EventKind = "unminimize"
	EventCenter     EventKind = "center"
	EventEmit       EventKind = "emit"
)

// Event is a surface operation delivered to the UI layer.
type Event struct {
	Kind     EventKind `json:"kind"`
	Label    string    `json:"label"`
	Name     string    `json:"name,omitempty"`    // emitted event name
	Payload  string    `json:"payload,omitempty"` // emitted event payload
	Geometry *Geometry `json:"geometry,omitempty"`
}

// Broadcaster is a Surface that publishes every operation to subscribers;
// the UI process subscribes and renders accordingly. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int

	// CreateHook, if set, can veto window construction.
	CreateHook func(label string, geometry Geometry) error
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel func unsubscribes
// and closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("[window] Subscriber %d is behind, dropped %s %s", id, ev.Kind, ev.Label)
		}
	}
}

func (b *Broadcaster) Create(label string, geometry Geometry) error {
	if b.CreateHook != nil {
		if err := b.CreateHook(label, geometry); err != nil {
			return err
		}
	}
	g := geometry
	b.publish(Event{Kind: EventCreate, Label: label, Geometry: &g})
	return nil
}

func (b *Broadcaster) Show(label string) error {
	b.publish(Event{Kind: EventShow, Label: label})
	return nil
}

func (b *Broadcaster) Hide(label string) error {
	b.publish(Event{Kind: EventHide, Label: label})
	return nil
}

func (b *Broadcaster) Focus(label string) error {
	b.publish(Event{Kind: EventFocus, Label: label})
	return nil
}

func (b *Broadcaster) Unminimize(label string) error {
	b.publish(Event{Kind: EventUnminimize, Label: label})
	return nil
}

func (b *Broadcaster) Center(label string) error {
	b.publish(Event{Kind: EventCenter, Label: label})
	return nil
}

func (b *Broadcaster) Emit(label, event, payload string) error {
	b.publish(Event{Kind: EventEmit, Label: label, Name: event, Payload: payload})
	return nil
}
