package profiler

// Operation names a measured operation.
type Operation struct {
	Name        string
	Origin      string
	Description string
}

// Op is a shorthand constructor for an Operation without description.
func Op(name, origin string) Operation {
	return Operation{Name: name, Origin: origin}
}

// WithDescription returns a copy of the Operation with the given description.
func (o Operation) WithDescription(description string) Operation {
	o.Description = description
	return o
}

// Stopwatch measures operations with a Clock and hands the measurements to a Recorder.
//
// Recording failures (e.g., a full bounded Event Log) never reach the measured operation,
// its result and error are always returned unchanged. Use OnRecordError to observe them.
type Stopwatch struct {
	recorder      Recorder
	clock         Clock
	onRecordError func(op Operation, err error)
}

// StopwatchOption defines a functional option for configuring Stopwatch.
type StopwatchOption func(*Stopwatch) error

// OnRecordError sets a callback that receives every error returned by the Recorder.
func OnRecordError(callback func(op Operation, err error)) StopwatchOption {
	return func(s *Stopwatch) error {
		s.onRecordError = callback
		return nil
	}
}

// NewStopwatch creates a Stopwatch that records into recorder using clock.
func NewStopwatch(recorder Recorder, clock Clock, options ...StopwatchOption) (Stopwatch, error) {
	if recorder == nil {
		return Stopwatch{}, ErrNilRecorder
	}

	if clock == nil {
		return Stopwatch{}, ErrNilClock
	}

	s := Stopwatch{
		recorder: recorder,
		clock:    clock,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Stopwatch{}, err
		}
	}

	return s, nil
}

// Clock returns the Clock the Stopwatch reads.
func (s Stopwatch) Clock() Clock {
	return s.clock
}

// Recorder returns the Recorder the Stopwatch records into.
func (s Stopwatch) Recorder() Recorder {
	return s.recorder
}

// Start reads the clock and returns a function that records the operation when called.
//
//	defer stopwatch.Start(profiler.Op("RegisterService", "server_builder.go"))()
func (s Stopwatch) Start(op Operation) func() {
	start := s.clock.Now()

	return func() {
		s.record(op, start, s.clock.Now())
	}
}

// Run executes fn and records its execution time. The error of fn is returned unchanged.
func (s Stopwatch) Run(op Operation, fn func() error) error {
	start := s.clock.Now()
	err := fn()
	s.record(op, start, s.clock.Now())

	return err
}

// RecordSpan records an operation whose timestamps were taken elsewhere.
func (s Stopwatch) RecordSpan(op Operation, startNS, endNS Nanoseconds) {
	s.record(op, startNS, endNS)
}

func (s Stopwatch) record(op Operation, startNS, endNS Nanoseconds) {
	if _, err := s.recorder.Record(op.Name, startNS, endNS, op.Origin, op.Description); err != nil {
		if s.onRecordError != nil {
			s.onRecordError(op, err)
		}
	}
}

// Measure executes fn, records its execution time and returns its result and error unchanged.
func Measure[T any](s Stopwatch, op Operation, fn func() (T, error)) (T, error) {
	start := s.clock.Now()
	result, err := fn()
	s.record(op, start, s.clock.Now())

	return result, err
}
