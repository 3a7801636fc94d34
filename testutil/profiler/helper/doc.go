// Package helper provides test doubles and shared utilities for the profiler test suites.
//
// It contains spies for the dependency-free observability interfaces (slog handler, metrics
// and tracing collectors), a manually driven clock and helpers for inspecting exported files.
package helper
