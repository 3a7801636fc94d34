package stores

import (
	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// Store defines the operations the recorder needs from an Event Log backing store.
type Store interface {
	// Append adds the record at the end and returns its 1-based position.
	Append(record profiler.EventRecord) (profiler.RecordID, error)

	// Snapshot returns a copy of all records in arrival order.
	Snapshot() profiler.EventRecords

	// Len returns the number of stored records.
	Len() int

	// Capacity returns the maximum number of records, 0 means unbounded.
	Capacity() int
}
