package postgresengine

import (
	"errors"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableName = errors.New("empty records table name supplied")

// Option defines a functional option for configuring Sink.
type Option func(*Sink) error

// WithTableName sets the table name for the Sink.
func WithTableName(tableName string) Option {
	return func(s *Sink) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Sink.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing
// Info level: Exported, loaded and deleted record counts with durations
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that abort an operation.
func WithLogger(logger profiler.Logger) Option {
	return func(s *Sink) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, preferred over the plain logger for operational messages.
func WithContextualLogger(logger profiler.ContextualLogger) Option {
	return func(s *Sink) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Sink.
func WithMetrics(collector profiler.MetricsCollector) Option {
	return func(s *Sink) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Sink.
func WithTracing(collector profiler.TracingCollector) Option {
	return func(s *Sink) error {
		s.tracingCollector = collector
		return nil
	}
}
