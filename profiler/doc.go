// Package profiler provides the core abstractions and types of a low-overhead call profiler
// that is embedded into an RPC call path.
//
// This package defines the types shared by the recorder, reporter and sink implementations:
// event records, clocks, latency sample buffers with their quartile distribution, record filters,
// the Recorder interface and the dependency-free observability interfaces.
//
// Timestamps are plain uint64 nanosecond counts taken from a Clock by the call site. The recorder
// never reads the clock itself, so the cost of a measured section is only the two Now() calls
// plus one append.
//
// Key types:
//   - EventRecord: one measured operation (name, origin, description, start, end, duration)
//   - Recorder: appends EventRecord(s) and hands out snapshots
//   - Stopwatch: wraps arbitrary operations and records their execution time
//   - LatencySamples: fixed-capacity per-run latency buffer
//   - Distribution: Min, Q1, Median, Q3, Max of a sorted copy of LatencySamples
//
// Common usage pattern:
//
//	recorder, err := memoryengine.NewRecorder()
//	if err != nil {
//		// handle error
//	}
//
//	stopwatch, err := profiler.NewStopwatch(recorder, profiler.NewMonotonicClock())
//	if err != nil {
//		// handle error
//	}
//
//	reply, err := profiler.Measure(stopwatch, profiler.Op("SayHello", "greeter_client.go"), func() (*Reply, error) {
//		return client.SayHello(ctx, request)
//	})
//
//	records := recorder.AllRecords()
package profiler
