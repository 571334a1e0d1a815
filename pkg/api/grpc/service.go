package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "golox.v1.Interpreter"

// InterpreterServer is the server API for the golox.v1.Interpreter service.
// Every request and response is a google.protobuf.Struct.
type InterpreterServer interface {
	Run(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Eval(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(InterpreterServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InterpreterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + name,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InterpreterServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// serviceDesc describes the service without generated code.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InterpreterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Run", Handler: unaryHandler("Run", InterpreterServer.Run)},
		{MethodName: "CreateSession", Handler: unaryHandler("CreateSession", InterpreterServer.CreateSession)},
		{MethodName: "GetSession", Handler: unaryHandler("GetSession", InterpreterServer.GetSession)},
		{MethodName: "ListSessions", Handler: unaryHandler("ListSessions", InterpreterServer.ListSessions)},
		{MethodName: "Eval", Handler: unaryHandler("Eval", InterpreterServer.Eval)},
		{MethodName: "DeleteSession", Handler: unaryHandler("DeleteSession", InterpreterServer.DeleteSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "golox/v1/interpreter.proto",
}

// RegisterInterpreterServer registers srv on s.
func RegisterInterpreterServer(s grpc.ServiceRegistrar, srv InterpreterServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Client calls the golox.v1.Interpreter service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Run executes source as a standalone script.
func (c *Client) Run(ctx context.Context, source string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Run", map[string]any{"source": source}, opts...)
}

// CreateSession creates a REPL session.
func (c *Client) CreateSession(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateSession", map[string]any{}, opts...)
}

// GetSession returns a session and its transcript.
func (c *Client) GetSession(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSession", map[string]any{"name": name}, opts...)
}

// ListSessions returns every session.
func (c *Client) ListSessions(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListSessions", map[string]any{}, opts...)
}

// Eval runs source as the next entry of a session.
func (c *Client) Eval(ctx context.Context, name, source string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Eval", map[string]any{"name": name, "source": source}, opts...)
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteSession", map[string]any{"name": name}, opts...)
}
