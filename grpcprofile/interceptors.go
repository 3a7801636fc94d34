package grpcprofile

import (
	"context"

	"google.golang.org/grpc"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	EventUnaryClientRoundTrip = "UnaryClientRoundTrip"
	EventUnaryServerHandler   = "UnaryServerHandler"
)

// UnaryClientInterceptor records the round trip of every unary call made through the connection.
// The invoker's error is returned unchanged.
func UnaryClientInterceptor(stopwatch profiler.Stopwatch) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {

		op := profiler.Op(EventUnaryClientRoundTrip, OriginClient).WithDescription(method)

		return stopwatch.Run(op, func() error {
			return invoker(ctx, method, req, reply, cc, opts...)
		})
	}
}

// UnaryServerInterceptor records the execution of every unary handler of the server.
// The handler's response and error are returned unchanged.
func UnaryServerInterceptor(stopwatch profiler.Stopwatch) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		op := profiler.Op(EventUnaryServerHandler, OriginServer).WithDescription(info.FullMethod)

		return profiler.Measure(stopwatch, op, func() (any, error) {
			return handler(ctx, req)
		})
	}
}
