package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "geodes.v1.Optimizer"

const (
	solveMethod      = "/" + ServiceName + "/Solve"
	solveBatchMethod = "/" + ServiceName + "/SolveBatch"
)

// OptimizerServer is the server API for the Optimizer service. Requests and
// replies are free-form structs; see Server for the fields.
type OptimizerServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SolveBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Optimizer service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OptimizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: solveHandler},
		{MethodName: "SolveBatch", Handler: solveBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geodes/v1/optimizer.proto",
}

// Register attaches srv to s
func Register(s grpc.ServiceRegistrar, srv OptimizerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func solveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OptimizerServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: solveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OptimizerServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func solveBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OptimizerServer).SolveBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: solveBatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OptimizerServer).SolveBatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Optimizer service over an existing connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Solve sends one blueprint in text form
func (c *Client) Solve(ctx context.Context, blueprint string, minutes int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{
		"blueprint": blueprint,
		"minutes":   minutes,
	})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, solveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SolveBatch sends many blueprints in text form; first <= 0 keeps all
func (c *Client) SolveBatch(ctx context.Context, blueprints string, minutes, first int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{
		"blueprints": blueprints,
		"minutes":    minutes,
		"first":      first,
	})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, solveBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
