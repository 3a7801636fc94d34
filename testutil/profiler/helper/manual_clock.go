package helper

import (
	"sync/atomic"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// ManualClock is a profiler.Clock that only moves when told to.
// With a non-zero step every Now() call advances the clock by step after reading it.
type ManualClock struct {
	now  atomic.Uint64
	step uint64
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start profiler.Nanoseconds, step profiler.Nanoseconds) *ManualClock {
	c := &ManualClock{step: step}
	c.now.Store(start)

	return c
}

// Now implements profiler.Clock.
func (c *ManualClock) Now() profiler.Nanoseconds {
	if c.step == 0 {
		return c.now.Load()
	}

	return c.now.Add(c.step) - c.step
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d profiler.Nanoseconds) {
	c.now.Add(d)
}

// Set moves the clock to an absolute value, backwards is allowed.
func (c *ManualClock) Set(now profiler.Nanoseconds) {
	c.now.Store(now)
}

var _ profiler.Clock = (*ManualClock)(nil)
