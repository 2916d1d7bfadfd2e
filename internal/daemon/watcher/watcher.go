// Package watcher watches the daemon's configuration files for changes.
package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSettingsChanged EventType = iota
	EventSettingsRemoved
)

func (t EventType) String() string {
	switch t {
	case EventSettingsChanged:
		return "settings_changed"
	case EventSettingsRemoved:
		return "settings_removed"
	default:
		return "unknown"
	}
}

const defaultDebounce = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches individual files by watching their parent directories.
// Editors and SaveYAML replace files by renaming a temp file over them, so a
// watch on the file itself would be lost after the first save.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	files      map[string]bool // cleaned path -> watched
	dirs       map[string]int  // dir -> number of watched files in it
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
	delay      time.Duration
}

// New creates a new file system watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		files:      make(map[string]bool),
		dirs:       make(map[string]int),
		debounce:   make(map[string]*time.Timer),
		delay:      defaultDebounce,
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts processing file system events.
func (w *Watcher) Start() {
	go w.processEvents()
}

// Stop stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()
	})
}

// WatchFile adds path to the watched set. The file need not exist yet but
// its directory must.
func (w *Watcher) WatchFile(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[path] {
		return nil
	}
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[path] = true

	log.Printf("[watcher] Watching %s", path)
	return nil
}

// UnwatchFile removes path from the watched set.
func (w *Watcher) UnwatchFile(path string) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[path] {
		return
	}
	delete(w.files, path)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		_ = w.fsWatcher.Remove(dir)
	}
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] Error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	var typ EventType
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		typ = EventSettingsChanged
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// A rename away from path is a removal; a rename onto path shows up
		// as Create.
		typ = EventSettingsRemoved
	default:
		return
	}

	log.Printf("[watcher] fsnotify: %s %s", event.Op, path)
	w.debounceEvent(path, func() {
		w.emit(Event{Type: typ, Path: path})
	})
}

// debounceEvent debounces events for the same path. The last event wins.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}
