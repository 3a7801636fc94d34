// Package grpcprofile records the call path of gRPC calls into a profiler.Recorder.
//
// A StatsHandler records one record per transport phase of an RPC (metadata and messages sent and
// received, the final status) plus one record for the whole call. The unary interceptors record one
// round trip per call, and the ServerBuilder records the phases of bringing a server up.
//
// Every record carries the origin grpc.client or grpc.server and the full method name as description.
//
//	stopwatch, err := profiler.NewStopwatch(recorder, profiler.NewMonotonicClock())
//	if err != nil {
//		return err
//	}
//
//	conn, err := grpc.NewClient(target,
//		grpc.WithTransportCredentials(insecure.NewCredentials()),
//		grpc.WithStatsHandler(grpcprofile.NewClientStatsHandler(stopwatch)),
//	)
package grpcprofile
