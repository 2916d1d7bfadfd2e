// Package action routes logical actions from every event source (hotkeys,
// tray, UI commands) into the window registry through a single goroutine.
package action

import (
	"errors"
	"fmt"
)

// Name is a logical action.
type Name string

const (
	ShowWindow     Name = "show_window"
	HideWindow     Name = "hide_window"
	QuickCapture   Name = "quick_capture"
	Dashboard      Name = "dashboard"
	Settings       Name = "settings"
	CloseRequested Name = "close_requested"
	Minimized      Name = "minimized"
	Quit           Name = "quit"
)

// Source identifies where a request came from.
type Source string

const (
	SourceHotkey  Source = "hotkey"
	SourceTray    Source = "tray"
	SourceCommand Source = "command"
	SourceDaemon  Source = "daemon"
)

var (
	// ErrUnknownAction is returned for an action name the router does not handle.
	ErrUnknownAction = errors.New("unknown action")

	// ErrStopped is returned once the router has quit or its context ended.
	ErrStopped = errors.New("action router stopped")

	// ErrBusy is returned by Post when the request queue is full.
	ErrBusy = errors.New("action router busy")
)

var known = map[Name]bool{
	ShowWindow:     true,
	HideWindow:     true,
	QuickCapture:   true,
	Dashboard:      true,
	Settings:       true,
	CloseRequested: true,
	Minimized:      true,
	Quit:           true,
}

// Parse validates an action name.
func Parse(s string) (Name, error) {
	n := Name(s)
	if !known[n] {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return n, nil
}

// Request asks the router to perform an action. Label targets a specific
// window for close/hide/minimize requests; empty means the main window.
type Request struct {
	Action Name
	Label  string
	Source Source
}

func (r Request) String() string {
	if r.Label != "" {
		return fmt.Sprintf("%s(%s) from %s", r.Action, r.Label, r.Source)
	}
	return fmt.Sprintf("%s from %s", r.Action, r.Source)
}
