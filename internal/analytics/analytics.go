// Package analytics sends opt-in product analytics to PostHog. Idea content
// is never sent; only where an idea ended up.
package analytics

import (
	"log"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/aether-ai/aether/internal/buildinfo"
	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/models"
)

// Event names.
const (
	EventDaemonStarted = "daemon_started"
	EventIdeaCaptured  = "idea_captured"
	EventCaptureFailed = "idea_capture_failed"
)

// enqueuer is the part of posthog.Client the tracker uses.
type enqueuer interface {
	Enqueue(posthog.Message) error
	Close() error
}

// Tracker records analytics events. A nil or disabled Tracker does nothing.
type Tracker struct {
	client     enqueuer
	distinctID string
}

// EnsureDistinctID assigns a random distinct id when analytics is enabled
// and none is set. It reports whether settings changed and need saving.
func EnsureDistinctID(s *models.Settings) bool {
	if !s.Analytics.Enabled || s.Analytics.DistinctID != "" {
		return false
	}
	s.Analytics.DistinctID = uuid.NewString()
	return true
}

// New creates a tracker from settings. Analytics that is disabled or has no
// API key yields a no-op tracker.
func New(cfg models.AnalyticsConfig) (*Tracker, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &Tracker{}, nil
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{Endpoint: cfg.Endpoint})
	if err != nil {
		return nil, err
	}

	distinctID := cfg.DistinctID
	if distinctID == "" {
		distinctID = uuid.NewString()
	}
	log.Printf("[analytics] Enabled")
	return &Tracker{client: client, distinctID: distinctID}, nil
}

// Enabled reports whether events are sent.
func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

func (t *Tracker) track(event string, props posthog.Properties) {
	if !t.Enabled() {
		return
	}
	err := t.client.Enqueue(posthog.Capture{
		DistinctId: t.distinctID,
		Event:      event,
		Properties: props.Set("version", buildinfo.Version),
	})
	if err != nil {
		log.Printf("[analytics] Failed to enqueue %s: %v", event, err)
	}
}

// DaemonStarted records a daemon start.
func (t *Tracker) DaemonStarted(hotkeys, tray bool) {
	t.track(EventDaemonStarted, posthog.NewProperties().
		Set("hotkeys", hotkeys).
		Set("tray", tray))
}

// ObserveCapture implements capture.Observer.
func (t *Tracker) ObserveCapture(outcome capture.Outcome, err error) {
	if err != nil {
		t.track(EventCaptureFailed, posthog.NewProperties())
		return
	}
	props := posthog.NewProperties().Set("kind", string(outcome.Kind))
	if outcome.Reason != capture.ReasonNone {
		props.Set("reason", string(outcome.Reason))
	}
	t.track(EventIdeaCaptured, props)
}

// Close flushes queued events.
func (t *Tracker) Close() error {
	if !t.Enabled() {
		return nil
	}
	return t.client.Close()
}
