package metrics

import "github.com/aether-ai/aether/internal/capture"

// CaptureObserver counts capture outcomes.
type CaptureObserver struct{}

// ObserveCapture implements capture.Observer.
func (CaptureObserver) ObserveCapture(outcome capture.Outcome, err error) {
	RecordCapture(string(outcome.Kind), string(outcome.Reason), err)
}
