package tray

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"

	"github.com/aether-ai/aether/internal/autostart"
	"github.com/aether-ai/aether/internal/daemon/action"
)

// Daemon is the tray's view of the running daemon.
type Daemon interface {
	Port() int
	Post(req action.Request) error
}

var (
	daemon   Daemon
	onStart  func()
	onExit   func()
	portItem *systray.MenuItem

	menuItems map[string]*systray.MenuItem
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start daemon services here).
// onExitFn is called when the tray exits (cleanup here).
func Run(d Daemon, onStartFn, onExitFn func()) {
	daemon = d
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTitle("")
	systray.SetTooltip(autostart.AppName)

	header := systray.AddMenuItem(autostart.AppName, "")
	header.Disable()
	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	systray.AddSeparator()

	menuItems = map[string]*systray.MenuItem{
		MenuShow:    systray.AddMenuItem("Show Aether", "Show the main window"),
		MenuCapture: systray.AddMenuItem("Quick Capture", "Capture an idea"),
	}
	systray.AddSeparator()
	menuItems[MenuDashboard] = systray.AddMenuItem("Dashboard", "Open the dashboard")
	menuItems[MenuSettings] = systray.AddMenuItem("Settings", "Open settings")
	systray.AddSeparator()
	menuItems[MenuQuit] = systray.AddMenuItem("Quit", "Quit Aether")

	if onStart != nil {
		onStart()
	}

	if daemon != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", daemon.Port()))
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-menuItems[MenuShow].ClickedCh:
			deliver(daemon, Event{Kind: MenuClick, MenuID: MenuShow})
		case <-menuItems[MenuCapture].ClickedCh:
			deliver(daemon, Event{Kind: MenuClick, MenuID: MenuCapture})
		case <-menuItems[MenuDashboard].ClickedCh:
			deliver(daemon, Event{Kind: MenuClick, MenuID: MenuDashboard})
		case <-menuItems[MenuSettings].ClickedCh:
			deliver(daemon, Event{Kind: MenuClick, MenuID: MenuSettings})
		case <-menuItems[MenuQuit].ClickedCh:
			deliver(daemon, Event{Kind: MenuClick, MenuID: MenuQuit})
			return
		}
	}
}

// deliver routes ev and posts the resulting request. Tray clicks never wait
// for the window work to finish.
func deliver(d Daemon, ev Event) {
	req, ok := Route(ev)
	if !ok || d == nil {
		return
	}
	if err := d.Post(req); err != nil {
		log.Printf("[tray] %s not delivered: %v", req, err)
	}
}
