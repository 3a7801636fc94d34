package report

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	// DefaultResultFile is the result CSV file name used when the caller has no preference.
	DefaultResultFile = "grpc_profiler_result.csv"

	resultFilePerm = 0o644
)

var ErrNilRecordSource = errors.New("nil record source supplied")
var ErrNilConsole = errors.New("nil console writer supplied")
var ErrExportFailed = errors.New("exporting records to file failed")
var ErrTruncateFailed = errors.New("truncating result file failed")
var ErrConsoleWriteFailed = errors.New("writing to console failed")
var ErrEmptyReportTitle = errors.New("empty benchmark report title supplied")
var ErrNilSamples = errors.New("nil latency samples supplied")

// RecordSource provides snapshots of recorded events.
type RecordSource interface {
	AllRecords() profiler.EventRecords
}

// Reporter renders the records of a RecordSource to a console writer and to files.
type Reporter struct {
	source           RecordSource
	console          io.Writer
	reportDir        string
	now              func() time.Time
	logger           profiler.Logger
	contextualLogger profiler.ContextualLogger
	metricsCollector profiler.MetricsCollector
	tracingCollector profiler.TracingCollector
}

// Option defines a functional option for configuring Reporter.
type Option func(*Reporter) error

// WithConsole sets the console writer, os.Stdout by default.
func WithConsole(console io.Writer) Option {
	return func(r *Reporter) error {
		if console == nil {
			return ErrNilConsole
		}

		r.console = console

		return nil
	}
}

// WithReportDir sets the directory benchmark report files are written to, the working directory by default.
func WithReportDir(dir string) Option {
	return func(r *Reporter) error {
		r.reportDir = dir
		return nil
	}
}

// WithWallClock sets the wall clock used for the benchmark report timestamp.
func WithWallClock(now func() time.Time) Option {
	return func(r *Reporter) error {
		r.now = now
		return nil
	}
}

// WithLogger sets the logger for the Reporter.
// Info level: completed exports with record counts and durations.
// Error level: failed file operations.
func WithLogger(logger profiler.Logger) Option {
	return func(r *Reporter) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Reporter.
// It is preferred over the plain logger for operations that carry a context.
func WithContextualLogger(logger profiler.ContextualLogger) Option {
	return func(r *Reporter) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Reporter.
// It receives export durations, exported record counts and export errors.
func WithMetrics(collector profiler.MetricsCollector) Option {
	return func(r *Reporter) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Reporter.
// Every file export gets its own span.
func WithTracing(collector profiler.TracingCollector) Option {
	return func(r *Reporter) error {
		r.tracingCollector = collector
		return nil
	}
}

// NewReporter creates a Reporter for the given RecordSource.
func NewReporter(source RecordSource, options ...Option) (*Reporter, error) {
	if source == nil {
		return nil, ErrNilRecordSource
	}

	r := &Reporter{
		source:  source,
		console: os.Stdout,
		now:     time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}
