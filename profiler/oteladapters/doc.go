// Package oteladapters provides OpenTelemetry implementations of the profiler observability interfaces.
//
// The profiler packages only depend on the small interfaces in package profiler. Plug these adapters in
// through the WithMetrics, WithTracing and WithContextualLogger options when OpenTelemetry is already
// set up in the process:
//
//	recorder, err := memoryengine.NewRecorder(
//		memoryengine.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("profiler"))),
//	)
package oteladapters
