package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aether-ai/aether/internal/analytics"
	"github.com/aether-ai/aether/internal/autostart"
	"github.com/aether-ai/aether/internal/backend"
	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/hotkey"
	"github.com/aether-ai/aether/internal/daemon/hotkey/system"
	"github.com/aether-ai/aether/internal/daemon/metrics"
	"github.com/aether-ai/aether/internal/daemon/notify"
	"github.com/aether-ai/aether/internal/daemon/server"
	"github.com/aether-ai/aether/internal/daemon/tray"
	"github.com/aether-ai/aether/internal/daemon/watcher"
	"github.com/aether-ai/aether/internal/daemon/window"
	"github.com/aether-ai/aether/internal/models"
)

// daemon holds the running components. Everything except the server and
// hotkeys is built before the tray starts.
type daemon struct {
	tray         bool
	settingsPath string
	settings     *models.Settings

	ctx    context.Context
	cancel context.CancelFunc

	events    *window.Broadcaster
	router    *action.Router
	backend   *backend.Client
	capture   *capture.Service
	autostart *autostart.Manager
	tracker   *analytics.Tracker
	hotkeys   *hotkey.Dispatcher
	watcher   *watcher.Watcher

	mu  sync.Mutex
	srv *server.Server

	quitFn   func()
	stopOnce sync.Once
}

func newDaemon(withTray bool) (*daemon, error) {
	settingsPath, err := config.GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettingsFile(settingsPath)
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		settings = models.NewSettings()
	}
	if analytics.EnsureDistinctID(settings) {
		if err := config.SaveSettings(settings); err != nil {
			log.Printf("Failed to save settings: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &daemon{
		tray:         withTray,
		settingsPath: settingsPath,
		settings:     settings,
		ctx:          ctx,
		cancel:       cancel,
		events:       window.NewBroadcaster(),
	}

	registry, err := window.NewRegistry(d.events)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create windows: %w", err)
	}
	d.router = action.NewRouter(registry, d.quit)

	// A nil tracker is a no-op.
	d.tracker, err = analytics.New(settings.Analytics)
	if err != nil {
		log.Printf("Analytics disabled: %v", err)
	}

	d.backend = backend.NewClient(settings.Backend.URL, settings.Backend.Timeout)
	store := capture.NewStore(config.OfflineIdeasFile())
	observers := []capture.Option{
		capture.WithObserver(metrics.CaptureObserver{}),
		capture.WithObserver(d.tracker),
	}
	if withTray {
		observers = append(observers, capture.WithObserver(notify.New()))
	}
	d.capture = capture.NewService(d.backend, store, observers...)
	log.Printf("Backend %s, offline ideas at %s", d.backend.BaseURL(), store.Path())

	d.autostart, err = autostart.NewSystem()
	if err != nil {
		log.Printf("Autostart unavailable: %v", err)
		d.autostart = autostart.Unavailable(err)
	}

	d.hotkeys = hotkey.NewDispatcher(system.NewRegistrar(), d.router)
	return d, nil
}

// quit is the router's quit hook. It runs once, on the router goroutine.
func (d *daemon) quit() {
	log.Println("Quit requested")
	if d.quitFn != nil {
		d.quitFn()
	}
}

// start brings up the command server and background workers.
func (d *daemon) start() error {
	go d.router.Run(d.ctx)
	go d.autostart.Initialize()

	hotkeysOK := true
	if err := d.hotkeys.Setup(hotkey.DefaultSpecs(d.settings.Hotkeys)); err != nil {
		log.Printf("Global hotkeys unavailable: %v", err)
		hotkeysOK = false
	} else {
		go func() {
			if err := d.hotkeys.Listen(d.ctx); err != nil {
				log.Printf("Hotkey listener stopped: %v", err)
			}
		}()
	}

	srv, err := server.New(d.settings.Server.Port, server.Deps{
		Router:    d.router,
		Capture:   d.capture,
		Feeds:     d.backend,
		Autostart: d.autostart,
		Events:    d.events,
		Status:    d.status,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	d.mu.Lock()
	d.srv = srv
	d.mu.Unlock()

	info := models.NewDaemonInfo(server.Host, srv.Port(), os.Getpid(), d.tray)
	if err := config.SaveDaemonInfo(info); err != nil {
		srv.Stop()
		return fmt.Errorf("write daemon info: %w", err)
	}

	log.Printf("Daemon started on port %d (PID %d)", srv.Port(), os.Getpid())

	go func() {
		if err := srv.Serve(); err != nil {
			log.Printf("Server error: %v", err)
			d.requestQuit()
		}
	}()

	d.watchSettings()
	d.tracker.DaemonStarted(hotkeysOK, d.tray)
	return nil
}

// requestQuit routes a quit through the router so no action is handled
// after it.
func (d *daemon) requestQuit() {
	if err := d.router.Post(action.Request{Action: action.Quit, Source: action.SourceDaemon}); err != nil {
		log.Printf("Failed to post quit: %v", err)
		d.quit()
	}
}

// watchSettings reloads backend settings when settings.yaml changes.
// Hotkey and port changes apply on the next start.
func (d *daemon) watchSettings() {
	w, err := watcher.New()
	if err != nil {
		log.Printf("Settings watcher unavailable: %v", err)
		return
	}
	if err := w.WatchFile(d.settingsPath); err != nil {
		log.Printf("Failed to watch %s: %v", d.settingsPath, err)
		w.Stop()
		return
	}
	w.Start()
	d.watcher = w

	go func() {
		for {
			select {
			case <-d.ctx.Done():
				return
			case ev := <-w.Events():
				d.reloadSettings(ev)
			}
		}
	}()
}

func (d *daemon) reloadSettings(ev watcher.Event) {
	settings := models.NewSettings()
	if ev.Type == watcher.EventSettingsChanged {
		loaded, err := config.LoadSettingsFile(ev.Path)
		if err != nil {
			log.Printf("Ignoring invalid settings file: %v", err)
			return
		}
		settings = loaded
	} else if url := os.Getenv(config.BackendURLEnv); url != "" {
		settings.Backend.URL = url
	}

	d.backend.Configure(settings.Backend.URL, settings.Backend.Timeout)
	log.Printf("Settings %s, backend now %s", ev.Type, d.backend.BaseURL())
	if settings.Hotkeys != d.settings.Hotkeys {
		log.Println("Hotkey changes apply after restart")
	}
}

// status adds daemon details to GetStatus.
func (d *daemon) status() map[string]any {
	bindings := d.hotkeys.Bindings()
	hotkeys := make([]any, 0, len(bindings))
	for _, b := range bindings {
		hotkeys = append(hotkeys, b.Binding.String()+" "+string(b.Action))
	}
	return map[string]any{
		"backend_url":  d.backend.BaseURL(),
		"hotkeys":      hotkeys,
		"hotkey_state": d.hotkeys.State().String(),
		"tray":         d.tray,
	}
}

// stop tears everything down. Safe to call more than once.
func (d *daemon) stop() {
	d.stopOnce.Do(func() {
		d.cancel()

		d.mu.Lock()
		srv := d.srv
		d.mu.Unlock()
		if srv != nil {
			srv.Stop()
		}

		if err := d.hotkeys.Close(); err != nil {
			log.Printf("Failed to unregister hotkeys: %v", err)
		}
		if d.watcher != nil {
			d.watcher.Stop()
		}
		if err := d.tracker.Close(); err != nil {
			log.Printf("Failed to flush analytics: %v", err)
		}
		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}

		fmt.Println("Daemon stopped")
	})
}

// runForeground runs the daemon without a system tray, blocking until a
// signal or a quit action.
func runForeground(d *daemon) {
	quitCh := make(chan struct{})
	var once sync.Once
	d.quitFn = func() { once.Do(func() { close(quitCh) }) }

	if err := d.start(); err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-quitCh:
	}

	d.stop()
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(d *daemon) {
	d.quitFn = tray.Quit

	onStart := func() {
		if err := d.start(); err != nil {
			log.Fatalf("Failed to start daemon: %v", err)
		}

		// Handle OS signals: quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			d.requestQuit()
		}()
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(trayDaemon{d}, onStart, d.stop)
}

// trayDaemon exposes the daemon to the tray. The server is nil until
// onStart has run.
type trayDaemon struct {
	d *daemon
}

func (t trayDaemon) Port() int {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	if t.d.srv == nil {
		return 0
	}
	return t.d.srv.Port()
}

func (t trayDaemon) Post(req action.Request) error {
	return t.d.router.Post(req)
}
