package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/aether-ai/aether/internal/autostart"
	"github.com/aether-ai/aether/internal/backend"
	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/window"
)

type fakeSubmitter struct {
	err error
}

func (f *fakeSubmitter) SubmitIdea(_ context.Context, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return `{"id":"idea-1","status":"received"}`, nil
}

type fakeFeeds struct{}

func (fakeFeeds) Dashboard(context.Context) map[string]any { return backend.MockDashboard() }

func (fakeFeeds) Notifications(context.Context) []any {
	return []any{map[string]any{"title": "Standup in 5 minutes"}}
}

type fakeLauncher struct {
	mu      sync.Mutex
	enabled bool
}

func (f *fakeLauncher) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeLauncher) Enable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = true
	return nil
}

func (f *fakeLauncher) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = false
	return nil
}

type harness struct {
	srv       *Server
	client    *CommandsClient
	submitter *fakeSubmitter
	store     *capture.Store
	quits     *atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	events := window.NewBroadcaster()
	reg, err := window.NewRegistry(events)
	require.NoError(t, err)

	quits := &atomic.Int32{}
	router := action.NewRouter(reg, func() { quits.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go router.Run(ctx)

	submitter := &fakeSubmitter{}
	store := capture.NewStore(filepath.Join(t.TempDir(), "offline_ideas.txt"))

	srv, err := New(0, Deps{
		Router:    router,
		Capture:   capture.NewService(submitter, store),
		Feeds:     fakeFeeds{},
		Autostart: autostart.New(&fakeLauncher{}),
		Events:    events,
		Status:    func() map[string]any { return map[string]any{"tray": false} },
	})
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(srv.listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{
		srv:       srv,
		client:    NewCommandsClient(conn),
		submitter: submitter,
		store:     store,
		quits:     quits,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), err.Error())
}

func TestCaptureIdeaRemote(t *testing.T) {
	h := newHarness(t)
	out, err := h.client.CaptureIdea(testContext(t), "Try a weekly review ritual")
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, "remote", fields["kind"])
	assert.Equal(t, `{"id":"idea-1","status":"received"}`, fields["response"])
	assert.Equal(t, "", fields["reason"])
}

func TestCaptureIdeaOffline(t *testing.T) {
	h := newHarness(t)
	h.submitter.err = &backend.UnreachableError{Err: errors.New("connection refused")}

	out, err := h.client.CaptureIdea(testContext(t), "offline idea")
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, "offline", fields["kind"])
	assert.Equal(t, capture.OfflineResponse, fields["response"])
	assert.Equal(t, "unreachable", fields["reason"])

	records, err := h.store.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "offline idea", records[0].Content)
}

func TestCaptureIdeaBlankIsStoredOffline(t *testing.T) {
	h := newHarness(t)
	h.submitter.err = &backend.UnreachableError{Err: errors.New("connection refused")}

	out, err := h.client.CaptureIdea(testContext(t), "   ")
	require.NoError(t, err)
	assert.Equal(t, "offline", out.AsMap()["kind"])

	records, err := h.store.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "   ", records[0].Content)
}

func TestWindowCommands(t *testing.T) {
	h := newHarness(t)
	ctx := testContext(t)

	require.NoError(t, h.client.ShowMainWindow(ctx))
	list, err := h.client.ListWindows(ctx)
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 1)
	main := list.GetValues()[0].GetStructValue().AsMap()
	assert.Equal(t, window.MainLabel, main["label"])
	assert.Equal(t, true, main["visible"])

	require.NoError(t, h.client.Dispatch(ctx, string(action.QuickCapture)))
	require.NoError(t, h.client.RequestClose(ctx, window.QuickCaptureLabel))
	require.NoError(t, h.client.HideMainWindow(ctx))

	list, err = h.client.ListWindows(ctx)
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 2)
	for _, v := range list.GetValues() {
		assert.Equal(t, false, v.GetStructValue().AsMap()["visible"])
	}
}

func TestWindowCommandErrors(t *testing.T) {
	h := newHarness(t)
	ctx := testContext(t)

	requireCode(t, h.client.Dispatch(ctx, "launch_rockets"), codes.InvalidArgument)
	requireCode(t, h.client.RequestClose(ctx, ""), codes.InvalidArgument)
	requireCode(t, h.client.RequestClose(ctx, "ghost"), codes.NotFound)
}

func TestAutostartCommands(t *testing.T) {
	h := newHarness(t)
	ctx := testContext(t)

	enabled, err := h.client.IsAutostartEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = h.client.ToggleAutostart(ctx, true)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = h.client.IsAutostartEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestFeeds(t *testing.T) {
	h := newHarness(t)
	ctx := testContext(t)

	dash, err := h.client.GetDashboardData(ctx)
	require.NoError(t, err)
	tasks := dash.AsMap()["tasks"].(map[string]any)
	assert.Equal(t, float64(12), tasks["total"])

	notes, err := h.client.GetNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes.GetValues(), 1)
}

func TestGetStatus(t *testing.T) {
	h := newHarness(t)
	st, err := h.client.GetStatus(testContext(t))
	require.NoError(t, err)

	fields := st.AsMap()
	assert.Equal(t, float64(h.srv.Port()), fields["port"])
	assert.Equal(t, false, fields["tray"])
	assert.Equal(t, false, fields["autostart"])
}

func TestWatchWindows(t *testing.T) {
	h := newHarness(t)
	ctx := testContext(t)

	stream, err := h.client.WatchWindows(ctx)
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "state", first.AsMap()["kind"])
	assert.Equal(t, window.MainLabel, first.AsMap()["label"])

	require.NoError(t, h.client.ShowMainWindow(ctx))

	var kinds []string
	for len(kinds) < 4 {
		msg, err := stream.Recv()
		require.NoError(t, err)
		kinds = append(kinds, msg.AsMap()["kind"].(string))
	}
	assert.Equal(t, []string{"show", "unminimize", "focus", "center"}, kinds)
}

func TestShutdownQuitsThroughRouter(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.client.Shutdown(testContext(t)))
	assert.Eventually(t, func() bool { return h.quits.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.client.ShowMainWindow(testContext(t)))

	resp, err := http.Get("http://" + h.srv.listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "aether_actions_dispatched_total")
}

func TestGrpcWebRequest(t *testing.T) {
	h := newHarness(t)

	// One uncompressed frame carrying an empty message.
	req, err := http.NewRequest(http.MethodPost,
		"http://"+h.srv.listener.Addr().String()+"/"+ServiceName+"/IsAutostartEnabled",
		strings.NewReader("\x00\x00\x00\x00\x00"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/grpc-web+proto")
	req.Header.Set("X-Grpc-Web", "1")
	req.Header.Set("Origin", "http://localhost:1420")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/grpc-web"))
	assert.Equal(t, "http://localhost:1420", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownPathIsNotFound(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get("http://" + h.srv.listener.Addr().String() + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:1420", true},
		{"http://127.0.0.1:8080", true},
		{"tauri://localhost", true},
		{"https://evil.example.com", false},
		{"http://localhost.evil.com", false},
		{"file:///tmp/x.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allowOrigin(tt.origin), tt.origin)
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{action.ErrUnknownAction, codes.InvalidArgument},
		{window.ErrUnknownWindow, codes.NotFound},
		{window.ErrNotVisible, codes.FailedPrecondition},
		{action.ErrStopped, codes.Unavailable},
		{action.ErrBusy, codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("disk full"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}
