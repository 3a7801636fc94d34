package memoryengine

import (
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

var ErrNilWindowID = errors.New("nil window id supplied")

// Option defines a functional option for configuring Recorder.
type Option func(*Recorder) error

// WithCapacity selects the bounded backing store with room for exactly capacity records.
func WithCapacity(capacity int) Option {
	return func(r *Recorder) error {
		if capacity < 1 {
			return profiler.ErrInvalidCapacity
		}

		r.capacity = capacity

		return nil
	}
}

// WithPreallocation lets the unbounded backing store reserve room for n records up front.
// It has no effect together with WithCapacity.
func WithPreallocation(n int) Option {
	return func(r *Recorder) error {
		r.preallocate = n
		return nil
	}
}

// WithWindowID sets the measurement window ID instead of generating one.
func WithWindowID(windowID uuid.UUID) Option {
	return func(r *Recorder) error {
		if windowID == uuid.Nil {
			return ErrNilWindowID
		}

		r.windowID = windowID

		return nil
	}
}

// WithLogger sets the logger for the Recorder.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every appended record (development use)
// Warn level: rejected records and records whose end lies before their start.
func WithLogger(logger profiler.Logger) Option {
	return func(r *Recorder) error {
		r.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Recorder.
// It receives counters for appended records, rejected records and clock anomalies.
func WithMetrics(collector profiler.MetricsCollector) Option {
	return func(r *Recorder) error {
		r.metricsCollector = collector
		return nil
	}
}
