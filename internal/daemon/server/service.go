package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/aether-ai/aether/internal/buildinfo"
	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/daemon/action"
	"github.com/aether-ai/aether/internal/daemon/window"
)

// Router is the action router as seen by the command surface.
type Router interface {
	Dispatch(ctx context.Context, req action.Request) error
	Windows(ctx context.Context) ([]window.Handle, error)
}

// Capturer captures ideas.
type Capturer interface {
	Capture(ctx context.Context, content string) (capture.Outcome, error)
}

// Feeds provides dashboard and notification data.
type Feeds interface {
	Dashboard(ctx context.Context) map[string]any
	Notifications(ctx context.Context) []any
}

// Autostart controls launch at login.
type Autostart interface {
	IsEnabled() bool
	Toggle(enable bool) (bool, error)
}

// WindowEvents publishes window operations for the UI layer.
type WindowEvents interface {
	Subscribe(buffer int) (<-chan window.Event, func())
}

// Deps are the daemon components behind the command surface.
type Deps struct {
	Router    Router
	Capture   Capturer
	Feeds     Feeds
	Autostart Autostart
	Events    WindowEvents

	// Status, if set, adds daemon details to GetStatus.
	Status func() map[string]any
}

// shutdownDelay lets the Shutdown response reach the client before the
// process exits.
const shutdownDelay = 100 * time.Millisecond

type commandsService struct {
	deps      Deps
	port      func() int
	startedAt time.Time
}

func (s *commandsService) CaptureIdea(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	outcome, err := s.deps.Capture.Capture(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	fields := map[string]any{
		"kind":     string(outcome.Kind),
		"response": outcome.Response,
		"reason":   string(outcome.Reason),
	}
	if outcome.StatusCode != 0 {
		fields["status_code"] = outcome.StatusCode
	}
	return structpb.NewStruct(fields)
}

func (s *commandsService) GetDashboardData(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(s.deps.Feeds.Dashboard(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "dashboard data: %v", err)
	}
	return out, nil
}

func (s *commandsService) GetNotifications(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	out, err := structpb.NewList(s.deps.Feeds.Notifications(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "notifications: %v", err)
	}
	return out, nil
}

func (s *commandsService) dispatch(ctx context.Context, name action.Name, label string) (*emptypb.Empty, error) {
	err := s.deps.Router.Dispatch(ctx, action.Request{Action: name, Label: label, Source: action.SourceCommand})
	if err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *commandsService) ShowMainWindow(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return s.dispatch(ctx, action.ShowWindow, "")
}

func (s *commandsService) HideMainWindow(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return s.dispatch(ctx, action.HideWindow, window.MainLabel)
}

func (s *commandsService) RequestClose(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "window label is required")
	}
	return s.dispatch(ctx, action.CloseRequested, req.GetValue())
}

func (s *commandsService) Dispatch(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	name, err := action.Parse(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	if name == action.Quit {
		return s.Shutdown(ctx, &emptypb.Empty{})
	}
	return s.dispatch(ctx, name, "")
}

func (s *commandsService) ToggleAutostart(_ context.Context, req *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error) {
	enabled, err := s.deps.Autostart.Toggle(req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "autostart: %v", err)
	}
	return wrapperspb.Bool(enabled), nil
}

func (s *commandsService) IsAutostartEnabled(_ context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.deps.Autostart.IsEnabled()), nil
}

func (s *commandsService) ListWindows(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	handles, err := s.deps.Router.Windows(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]any, 0, len(handles))
	for _, h := range handles {
		m, err := toMap(h)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "window %s: %v", h.Label, err)
		}
		items = append(items, m)
	}
	return structpb.NewList(items)
}

// WatchWindows sends the current windows as "state" events, then every
// window operation until the client goes away.
func (s *commandsService) WatchWindows(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()
	events, cancel := s.deps.Events.Subscribe(64)
	defer cancel()

	handles, err := s.deps.Router.Windows(ctx)
	if err != nil {
		return toStatus(err)
	}
	for _, h := range handles {
		m, err := toMap(h)
		if err != nil {
			return status.Errorf(codes.Internal, "window %s: %v", h.Label, err)
		}
		m["kind"] = "state"
		msg, err := structpb.NewStruct(m)
		if err != nil {
			return status.Errorf(codes.Internal, "window %s: %v", h.Label, err)
		}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m, err := toMap(ev)
			if err != nil {
				return status.Errorf(codes.Internal, "window event: %v", err)
			}
			msg, err := structpb.NewStruct(m)
			if err != nil {
				return status.Errorf(codes.Internal, "window event: %v", err)
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

func (s *commandsService) GetStatus(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	fields := map[string]any{
		"version":    buildinfo.Version,
		"pid":        os.Getpid(),
		"port":       s.port(),
		"started_at": s.startedAt.UTC().Format(time.RFC3339),
		"autostart":  s.deps.Autostart.IsEnabled(),
	}
	if s.deps.Status != nil {
		for k, v := range s.deps.Status() {
			fields[k] = v
		}
	}
	return structpb.NewStruct(fields)
}

func (s *commandsService) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	log.Printf("[server] Shutdown requested")
	go func() {
		time.Sleep(shutdownDelay)
		req := action.Request{Action: action.Quit, Source: action.SourceCommand}
		if err := s.deps.Router.Dispatch(context.Background(), req); err != nil {
			log.Printf("[server] Shutdown: %v", err)
		}
	}()
	return &emptypb.Empty{}, nil
}

// toMap converts a JSON-tagged value into the generic form structpb accepts.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// toStatus maps daemon errors to gRPC status codes.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, action.ErrUnknownAction):
		code = codes.InvalidArgument
	case errors.Is(err, window.ErrUnknownWindow):
		code = codes.NotFound
	case errors.Is(err, window.ErrNotVisible):
		code = codes.FailedPrecondition
	case errors.Is(err, action.ErrStopped), errors.Is(err, action.ErrBusy):
		code = codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
