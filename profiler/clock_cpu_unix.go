//go:build linux || darwin

package profiler

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ProcessCPUClock reads the CPU time consumed by all threads of the current process.
type ProcessCPUClock struct{}

// NewProcessCPUClock probes the per-process CPU clock once and fails if the kernel does not provide it.
func NewProcessCPUClock() (ProcessCPUClock, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_PROCESS_CPUTIME_ID, &ts); err != nil {
		return ProcessCPUClock{}, errors.Join(ErrClockUnavailable, err)
	}

	return ProcessCPUClock{}, nil
}

// Now returns the consumed process CPU time in nanoseconds.
func (ProcessCPUClock) Now() Nanoseconds {
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_PROCESS_CPUTIME_ID, &ts) // probed in NewProcessCPUClock

	return Nanoseconds(ts.Nano()) //nolint:gosec
}

var _ Clock = ProcessCPUClock{}
