// Package memoryengine provides the in-memory implementation of profiler.Recorder.
//
// A Recorder owns one Event Log. Records are appended under a mutex that is held only for the append
// itself, and AllRecords hands out a copy taken under the same mutex, so readers never observe a
// partially written record.
//
// The backing store is selected at construction:
//
//	recorder, err := memoryengine.NewRecorder()                          // unbounded
//	recorder, err := memoryengine.NewRecorder(memoryengine.WithCapacity(255)) // fixed capacity
//
// A bounded recorder rejects records once the capacity is reached with profiler.ErrCapacityExceeded.
// Every Recorder carries a measurement window ID (UUIDv7) which sinks use to tell the Event Logs of
// different benchmark runs apart.
package memoryengine
