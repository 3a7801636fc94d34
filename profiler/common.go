package profiler

import (
	"errors"
)

var ErrEmptyRecordName = errors.New("empty record name supplied")
var ErrCapacityExceeded = errors.New("event log capacity exceeded, record was rejected")
var ErrInvalidCapacity = errors.New("capacity must be at least 1")
var ErrRunOutOfRange = errors.New("run index is outside the latency sample buffer")
var ErrNoSamples = errors.New("no latency samples to evaluate")
var ErrSampleCountOutOfRange = errors.New("sample count exceeds the latency sample buffer capacity")
var ErrClockUnavailable = errors.New("clock source is not available on this platform")
var ErrNilRecorder = errors.New("nil recorder supplied")
var ErrNilClock = errors.New("nil clock supplied")

// RecordID is a type alias for uint, representing the 1-based arrival position of an EventRecord in the Event Log.
type RecordID = uint

// Nanoseconds is a type alias for uint64, representing a timestamp or a duration in nanoseconds.
type Nanoseconds = uint64
