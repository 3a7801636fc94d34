package profiler

import (
	"time"
)

// Clock returns the current time in nanoseconds.
//
// Implementations must be monotonic within a process, safe for concurrent use and must never fail
// per call. A backend that is not available has to be detected when the clock is constructed.
type Clock interface {
	Now() Nanoseconds
}

// ClockFunc adapts an ordinary function to the Clock interface.
type ClockFunc func() Nanoseconds

// Now calls f().
func (f ClockFunc) Now() Nanoseconds {
	return f()
}

// MonotonicClock reads the monotonic clock of the Go runtime relative to the instant it was created.
// The zero value is not usable, use NewMonotonicClock.
type MonotonicClock struct {
	epoch time.Time
}

// NewMonotonicClock creates a MonotonicClock whose epoch is now.
func NewMonotonicClock() MonotonicClock {
	return MonotonicClock{epoch: time.Now()}
}

// Now returns the nanoseconds elapsed since the clock's epoch.
func (c MonotonicClock) Now() Nanoseconds {
	return Nanoseconds(time.Since(c.epoch)) //nolint:gosec
}

// Epoch returns the wall clock time the clock started counting from.
func (c MonotonicClock) Epoch() time.Time {
	return c.epoch
}

var _ Clock = MonotonicClock{}
var _ Clock = ClockFunc(nil)
