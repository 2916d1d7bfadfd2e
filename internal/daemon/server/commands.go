package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ============================================================================
// gRPC Service Definition (hand-written; messages are well-known types)
// ============================================================================

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "aether.v1.Commands"

// CommandsServer is the server interface for the Commands service.
type CommandsServer interface {
	CaptureIdea(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetDashboardData(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetNotifications(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	ShowMainWindow(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	HideMainWindow(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	RequestClose(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ToggleAutostart(context.Context, *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error)
	IsAutostartEnabled(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	Dispatch(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ListWindows(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	WatchWindows(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func unary[Req, Resp proto.Message](name string, newReq func() Req, call func(CommandsServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(CommandsServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Req))
			})
		},
	}
}

func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }
func newBool() *wrapperspb.BoolValue { return &wrapperspb.BoolValue{} }

// CommandsServiceDesc describes the Commands service.
var CommandsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CommandsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CaptureIdea", newString, CommandsServer.CaptureIdea),
		unary("GetDashboardData", newEmpty, CommandsServer.GetDashboardData),
		unary("GetNotifications", newEmpty, CommandsServer.GetNotifications),
		unary("ShowMainWindow", newEmpty, CommandsServer.ShowMainWindow),
		unary("HideMainWindow", newEmpty, CommandsServer.HideMainWindow),
		unary("RequestClose", newString, CommandsServer.RequestClose),
		unary("ToggleAutostart", newBool, CommandsServer.ToggleAutostart),
		unary("IsAutostartEnabled", newEmpty, CommandsServer.IsAutostartEnabled),
		unary("Dispatch", newString, CommandsServer.Dispatch),
		unary("ListWindows", newEmpty, CommandsServer.ListWindows),
		unary("GetStatus", newEmpty, CommandsServer.GetStatus),
		unary("Shutdown", newEmpty, CommandsServer.Shutdown),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchWindows",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(emptypb.Empty)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(CommandsServer).WatchWindows(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
			},
		},
	},
}

// RegisterCommandsServer registers srv with s.
func RegisterCommandsServer(s grpc.ServiceRegistrar, srv CommandsServer) {
	s.RegisterService(&CommandsServiceDesc, srv)
}

// CommandsClient calls the Commands service.
type CommandsClient struct {
	cc grpc.ClientConnInterface
}

// NewCommandsClient creates a client over cc.
func NewCommandsClient(cc grpc.ClientConnInterface) *CommandsClient {
	return &CommandsClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CommandsClient) CaptureIdea(ctx context.Context, content string) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "CaptureIdea", wrapperspb.String(content))
}

func (c *CommandsClient) GetDashboardData(ctx context.Context) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "GetDashboardData", &emptypb.Empty{})
}

func (c *CommandsClient) GetNotifications(ctx context.Context) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, "GetNotifications", &emptypb.Empty{})
}

func (c *CommandsClient) ShowMainWindow(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "ShowMainWindow", &emptypb.Empty{})
	return err
}

func (c *CommandsClient) HideMainWindow(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "HideMainWindow", &emptypb.Empty{})
	return err
}

func (c *CommandsClient) RequestClose(ctx context.Context, label string) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "RequestClose", wrapperspb.String(label))
	return err
}

func (c *CommandsClient) ToggleAutostart(ctx context.Context, enable bool) (bool, error) {
	out, err := invoke[wrapperspb.BoolValue](ctx, c.cc, "ToggleAutostart", wrapperspb.Bool(enable))
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *CommandsClient) IsAutostartEnabled(ctx context.Context) (bool, error) {
	out, err := invoke[wrapperspb.BoolValue](ctx, c.cc, "IsAutostartEnabled", &emptypb.Empty{})
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *CommandsClient) Dispatch(ctx context.Context, action string) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "Dispatch", wrapperspb.String(action))
	return err
}

func (c *CommandsClient) ListWindows(ctx context.Context) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, "ListWindows", &emptypb.Empty{})
}

func (c *CommandsClient) GetStatus(ctx context.Context) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "GetStatus", &emptypb.Empty{})
}

func (c *CommandsClient) Shutdown(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "Shutdown", &emptypb.Empty{})
	return err
}

// WatchWindows streams window events until ctx ends.
func (c *CommandsClient) WatchWindows(ctx context.Context) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &CommandsServiceDesc.Streams[0], "/"+ServiceName+"/WatchWindows")
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
