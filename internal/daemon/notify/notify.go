// Package notify shows desktop notifications for capture results the user
// would not otherwise see, such as an idea falling back to the offline log.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"

	"github.com/aether-ai/aether/internal/autostart"
	"github.com/aether-ai/aether/internal/capture"
)

// Notifier implements capture.Observer.
type Notifier struct {
	send func(title, message string) error
}

// New returns a Notifier that posts native desktop notifications.
func New() *Notifier {
	beeep.AppName = autostart.AppName
	return &Notifier{send: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// ObserveCapture notifies about offline fallbacks and failed captures.
// Ideas the backend accepted are reported by the UI.
func (n *Notifier) ObserveCapture(outcome capture.Outcome, err error) {
	title, message, ok := describe(outcome, err)
	if !ok {
		return
	}
	if err := n.send(title, message); err != nil {
		log.Printf("[notify] Failed to show notification: %v", err)
	}
}

func describe(outcome capture.Outcome, err error) (string, string, bool) {
	if err != nil {
		return "Idea not saved", err.Error(), true
	}
	if !outcome.Offline() {
		return "", "", false
	}
	switch outcome.Reason {
	case capture.ReasonRejected:
		return "Idea saved offline", "The backend did not accept the idea. It was saved to the offline log.", true
	default:
		return "Idea saved offline", "The backend could not be reached. The idea was saved to the offline log.", true
	}
}
