// Package metrics holds the daemon's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricActionsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aether",
		Name:      "actions_dispatched_total",
		Help:      "Actions handled by the action router, by source, action and result.",
	}, []string{"source", "action", "result"})

	metricHotkeyEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aether",
		Name:      "hotkey_events_total",
		Help:      "Hotkey press events received by the listener, by result.",
	}, []string{"result"})

	metricTrayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aether",
		Name:      "tray_events_total",
		Help:      "System tray interactions, by kind.",
	}, []string{"kind"})

	metricCaptures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aether",
		Name:      "ideas_captured_total",
		Help:      "Idea capture results, by destination and fallback reason.",
	}, []string{"kind", "reason"})

	metricCaptureFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aether",
		Name:      "idea_capture_failures_total",
		Help:      "Ideas that could be stored neither remotely nor locally.",
	})
)

// RecordAction counts one routed action.
func RecordAction(source, action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metricActionsDispatched.WithLabelValues(source, action, result).Inc()
}

// RecordHotkey counts one hotkey press; result is "dispatched", "unknown" or "dropped".
func RecordHotkey(result string) {
	metricHotkeyEvents.WithLabelValues(result).Inc()
}

// RecordTray counts one tray interaction.
func RecordTray(kind string) {
	metricTrayEvents.WithLabelValues(kind).Inc()
}

// RecordCapture counts one capture result.
func RecordCapture(kind, reason string, err error) {
	if err != nil {
		metricCaptureFailures.Inc()
		return
	}
	if reason == "" {
		reason = "none"
	}
	metricCaptures.WithLabelValues(kind, reason).Inc()
}
