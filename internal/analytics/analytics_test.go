package analytics

import (
	"errors"
	"testing"

	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/models"
)

type fakeClient struct {
	messages []posthog.Message
	closed   bool
}

func (f *fakeClient) Enqueue(m posthog.Message) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestDisabledTrackerIsNoop(t *testing.T) {
	tr, err := New(models.AnalyticsConfig{Enabled: false, APIKey: "phc_x"})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	tr.ObserveCapture(capture.Outcome{Kind: capture.KindRemote}, nil)
	tr.DaemonStarted(true, true)
	assert.NoError(t, tr.Close())

	var nilTracker *Tracker
	assert.NotPanics(t, func() { nilTracker.ObserveCapture(capture.Outcome{}, nil) })
}

func TestEnabledWithoutKeyIsNoop(t *testing.T) {
	tr, err := New(models.AnalyticsConfig{Enabled: true})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())
}

func TestObserveCaptureSendsNoContent(t *testing.T) {
	fc := &fakeClient{}
	tr := &Tracker{client: fc, distinctID: "install-1"}

	record := models.IdeaRecord{Content: "secret plan"}
	tr.ObserveCapture(capture.Outcome{
		Kind:   capture.KindOffline,
		Reason: capture.ReasonUnreachable,
		Record: &record,
	}, nil)
	tr.ObserveCapture(capture.Outcome{}, errors.New("disk full"))

	require.Len(t, fc.messages, 2)

	first := fc.messages[0].(posthog.Capture)
	assert.Equal(t, EventIdeaCaptured, first.Event)
	assert.Equal(t, "install-1", first.DistinctId)
	assert.Equal(t, "offline", first.Properties["kind"])
	assert.Equal(t, "unreachable", first.Properties["reason"])
	for _, v := range first.Properties {
		assert.NotEqual(t, "secret plan", v)
	}

	second := fc.messages[1].(posthog.Capture)
	assert.Equal(t, EventCaptureFailed, second.Event)

	require.NoError(t, tr.Close())
	assert.True(t, fc.closed)
}

func TestEnsureDistinctID(t *testing.T) {
	s := models.NewSettings()
	assert.False(t, EnsureDistinctID(s), "disabled analytics needs no id")

	s.Analytics.Enabled = true
	assert.True(t, EnsureDistinctID(s))
	id := s.Analytics.DistinctID
	assert.NotEmpty(t, id)

	assert.False(t, EnsureDistinctID(s))
	assert.Equal(t, id, s.Analytics.DistinctID)
}
