//go:build !linux && !darwin

package profiler

// ProcessCPUClock is not supported on this platform.
type ProcessCPUClock struct{}

// NewProcessCPUClock always fails with ErrClockUnavailable on this platform.
func NewProcessCPUClock() (ProcessCPUClock, error) {
	return ProcessCPUClock{}, ErrClockUnavailable
}

// Now always returns 0.
func (ProcessCPUClock) Now() Nanoseconds {
	return 0
}

var _ Clock = ProcessCPUClock{}
