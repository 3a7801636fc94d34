package profiler

import (
	"time"
)

// DefaultMaxRuns is the capacity of a LatencySamples buffer built with NewDefaultLatencySamples.
const DefaultMaxRuns = 1000

// LatencySamples is a fixed-capacity buffer with one latency slot per benchmark run.
//
// All slots are allocated at construction. Set and Get on distinct runs may be called concurrently,
// concurrent writes to the same run are not synchronized.
type LatencySamples struct {
	slots []Nanoseconds
}

// NewLatencySamples creates a buffer with the given number of run slots.
func NewLatencySamples(capacity int) (*LatencySamples, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &LatencySamples{slots: make([]Nanoseconds, capacity)}, nil
}

// NewDefaultLatencySamples creates a buffer with DefaultMaxRuns slots.
func NewDefaultLatencySamples() *LatencySamples {
	return &LatencySamples{slots: make([]Nanoseconds, DefaultMaxRuns)}
}

// Capacity returns the number of run slots.
func (l *LatencySamples) Capacity() int {
	return len(l.slots)
}

// Set stores the latency of one run.
func (l *LatencySamples) Set(run int, latency Nanoseconds) error {
	if run < 0 || run >= len(l.slots) {
		return ErrRunOutOfRange
	}

	l.slots[run] = latency

	return nil
}

// SetDuration stores the latency of one run given as time.Duration.
// Negative durations are stored as 0.
func (l *LatencySamples) SetDuration(run int, latency time.Duration) error {
	if latency < 0 {
		latency = 0
	}

	return l.Set(run, Nanoseconds(latency.Nanoseconds()))
}

// Get returns the latency of one run.
func (l *LatencySamples) Get(run int) (Nanoseconds, error) {
	if run < 0 || run >= len(l.slots) {
		return 0, ErrRunOutOfRange
	}

	return l.slots[run], nil
}

// Values returns a copy of the first count samples in run order.
func (l *LatencySamples) Values(count int) ([]Nanoseconds, error) {
	if err := l.checkCount(count); err != nil {
		return nil, err
	}

	values := make([]Nanoseconds, count)
	copy(values, l.slots[:count])

	return values, nil
}

// Distribution computes the Distribution of the first count samples.
// The buffer itself is left untouched.
func (l *LatencySamples) Distribution(count int) (Distribution, error) {
	if err := l.checkCount(count); err != nil {
		return Distribution{}, err
	}

	return ComputeDistribution(l.slots[:count])
}

// SortInPlace sorts the first count samples of the buffer itself and returns their Distribution.
// Afterward the slots no longer correspond to their runs.
func (l *LatencySamples) SortInPlace(count int) (Distribution, error) {
	if err := l.checkCount(count); err != nil {
		return Distribution{}, err
	}

	return ComputeDistributionInPlace(l.slots[:count])
}

func (l *LatencySamples) checkCount(count int) error {
	switch {
	case count < 1:
		return ErrNoSamples
	case count > len(l.slots):
		return ErrSampleCountOutOfRange
	default:
		return nil
	}
}
