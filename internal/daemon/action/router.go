package action

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/aether-ai/aether/internal/daemon/metrics"
	"github.com/aether-ai/aether/internal/daemon/window"
)

// queueSize bounds the requests waiting for the router goroutine.
const queueSize = 32

// Windows is the part of the window registry the router drives.
type Windows interface {
	EnsureVisible(label string) error
	Hide(label string) error
	RequestClose(label string) error
	MarkMinimized(label string) error
	Navigate(label, destination string) error
	Snapshot() []window.Handle
}

type envelope struct {
	req      Request
	reply    chan error
	snapshot chan []window.Handle
}

// Router serializes every window mutation onto the goroutine running Run.
// No other goroutine touches the registry.
type Router struct {
	windows  Windows
	quit     func()
	requests chan envelope
	done     chan struct{}
	stopOnce sync.Once
}

// NewRouter creates a router over windows. quit is called once, from the
// router goroutine, when the quit action is handled.
func NewRouter(windows Windows, quit func()) *Router {
	return &Router{
		windows:  windows,
		quit:     quit,
		requests: make(chan envelope, queueSize),
		done:     make(chan struct{}),
	}
}

// Run processes requests until ctx ends or a quit request is handled.
func (r *Router) Run(ctx context.Context) {
	defer r.stop()
	log.Printf("[router] Started")

	for {
		select {
		case <-ctx.Done():
			log.Printf("[router] Stopping: %v", ctx.Err())
			return
		case env := <-r.requests:
			if env.snapshot != nil {
				env.snapshot <- r.windows.Snapshot()
				continue
			}

			if env.req.Action == Quit {
				log.Printf("[router] Quit requested from %s", env.req.Source)
				metrics.RecordAction(string(env.req.Source), string(Quit), nil)
				if env.reply != nil {
					env.reply <- nil
				}
				r.stop()
				if r.quit != nil {
					r.quit()
				}
				return
			}

			err := r.handle(env.req)
			metrics.RecordAction(string(env.req.Source), string(env.req.Action), err)
			if env.reply != nil {
				env.reply <- err
			}
		}
	}
}

func (r *Router) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Done is closed when the router stops.
func (r *Router) Done() <-chan struct{} {
	return r.done
}

func (r *Router) handle(req Request) error {
	log.Printf("[router] %s", req)

	label := req.Label
	if label == "" {
		label = window.MainLabel
	}

	switch req.Action {
	case ShowWindow:
		return r.windows.EnsureVisible(window.MainLabel)
	case HideWindow:
		return r.windows.Hide(label)
	case QuickCapture:
		return r.windows.EnsureVisible(window.QuickCaptureLabel)
	case Dashboard, Settings:
		if err := r.windows.EnsureVisible(window.MainLabel); err != nil {
			return err
		}
		return r.windows.Navigate(window.MainLabel, string(req.Action))
	case CloseRequested:
		return r.windows.RequestClose(label)
	case Minimized:
		return r.windows.MarkMinimized(label)
	default:
		log.Printf("[router] Unknown action %q from %s", req.Action, req.Source)
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

// Dispatch enqueues req and waits for its result.
func (r *Router) Dispatch(ctx context.Context, req Request) error {
	env := envelope{req: req, reply: make(chan error, 1)}
	select {
	case r.requests <- env:
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-env.reply:
		return err
	case <-r.done:
		// The router may have answered just before stopping.
		select {
		case err := <-env.reply:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post enqueues req without waiting for it to be handled. It never blocks:
// a full queue drops the request with ErrBusy.
func (r *Router) Post(req Request) error {
	select {
	case <-r.done:
		return ErrStopped
	default:
	}

	select {
	case r.requests <- envelope{req: req}:
		return nil
	case <-r.done:
		return ErrStopped
	default:
		log.Printf("[router] Queue full, dropped %s", req)
		return ErrBusy
	}
}

// Windows returns a snapshot of the registry taken on the router goroutine.
func (r *Router) Windows(ctx context.Context) ([]window.Handle, error) {
	env := envelope{snapshot: make(chan []window.Handle, 1)}
	select {
	case r.requests <- env:
	case <-r.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case handles := <-env.snapshot:
		return handles, nil
	case <-r.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
