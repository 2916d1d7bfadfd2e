package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aether-ai/aether/internal/capture"
)

type sent struct {
	title, message string
}

func recordingNotifier(fail error) (*Notifier, *[]sent) {
	var got []sent
	return &Notifier{send: func(title, message string) error {
		got = append(got, sent{title, message})
		return fail
	}}, &got
}

func TestRemoteCaptureIsSilent(t *testing.T) {
	n, got := recordingNotifier(nil)
	n.ObserveCapture(capture.Outcome{Kind: capture.KindRemote, Response: "ok"}, nil)
	assert.Empty(t, *got)
}

func TestOfflineCaptureNotifies(t *testing.T) {
	n, got := recordingNotifier(nil)
	n.ObserveCapture(capture.Outcome{Kind: capture.KindOffline, Reason: capture.ReasonUnreachable}, nil)
	n.ObserveCapture(capture.Outcome{Kind: capture.KindOffline, Reason: capture.ReasonRejected, StatusCode: 500}, nil)

	if assert.Len(t, *got, 2) {
		assert.Equal(t, "Idea saved offline", (*got)[0].title)
		assert.Contains(t, (*got)[0].message, "could not be reached")
		assert.Contains(t, (*got)[1].message, "did not accept")
	}
}

func TestFailedCaptureNotifies(t *testing.T) {
	n, got := recordingNotifier(nil)
	n.ObserveCapture(capture.Outcome{}, errors.New("disk full"))

	if assert.Len(t, *got, 1) {
		assert.Equal(t, sent{"Idea not saved", "disk full"}, (*got)[0])
	}
}

func TestSendFailureIsTolerated(t *testing.T) {
	n, got := recordingNotifier(errors.New("no notification daemon"))
	assert.NotPanics(t, func() {
		n.ObserveCapture(capture.Outcome{Kind: capture.KindOffline}, nil)
	})
	assert.Len(t, *got, 1)
}
