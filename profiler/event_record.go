package profiler

import (
	"time"
)

// EventRecords is an alias type for a slice of EventRecord
type EventRecords = []EventRecord

// EventRecord is a DTO (data transfer object) describing one measured operation.
//
// It is built on scalars so that any instrumented call site can produce it without knowing
// how the records are stored or reported later.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildEventRecord
//   - BuildEventRecordWithoutMetadata
//
// DurationNS is computed once at construction time as EndNS - StartNS with unsigned wraparound.
type EventRecord struct {
	Name        string
	Origin      string
	Description string
	StartNS     Nanoseconds
	EndNS       Nanoseconds
	DurationNS  Nanoseconds
}

// BuildEventRecord is a factory method for EventRecord.
//
// It populates the EventRecord with the given scalar input and computes the duration.
// An end timestamp before the start timestamp is accepted, the duration then wraps around
// and ClockAnomaly reports true.
// Returns an error if name is empty.
func BuildEventRecord(
	name string,
	startNS Nanoseconds,
	endNS Nanoseconds,
	origin string,
	description string,
) (EventRecord, error) {

	if name == "" {
		return EventRecord{}, ErrEmptyRecordName
	}

	return EventRecord{
		Name:        name,
		Origin:      origin,
		Description: description,
		StartNS:     startNS,
		EndNS:       endNS,
		DurationNS:  endNS - startNS,
	}, nil
}

// BuildEventRecordWithoutMetadata is a factory method for EventRecord with empty origin and description.
func BuildEventRecordWithoutMetadata(name string, startNS Nanoseconds, endNS Nanoseconds) (EventRecord, error) {
	return BuildEventRecord(name, startNS, endNS, "", "")
}

// ClockAnomaly reports whether the end timestamp lies before the start timestamp.
// The stored duration of such a record is the wrapped-around unsigned difference.
func (r EventRecord) ClockAnomaly() bool {
	return r.EndNS < r.StartNS
}

// Duration returns DurationNS as time.Duration.
// Wrapped-around durations exceed the int64 range and come back negative.
func (r EventRecord) Duration() time.Duration {
	return time.Duration(r.DurationNS) //nolint:gosec
}
