package stores

import (
	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// BoundedStore keeps at most a fixed number of records in an array allocated at construction.
type BoundedStore struct {
	records profiler.EventRecords
	count   int
}

// NewBoundedStore creates a BoundedStore for capacity records.
func NewBoundedStore(capacity int) (*BoundedStore, error) {
	if capacity < 1 {
		return nil, profiler.ErrInvalidCapacity
	}

	return &BoundedStore{records: make(profiler.EventRecords, capacity)}, nil
}

// Append adds the record or fails with profiler.ErrCapacityExceeded when the store is full.
// A rejected record leaves the stored records untouched.
func (s *BoundedStore) Append(record profiler.EventRecord) (profiler.RecordID, error) {
	if s.count == len(s.records) {
		return 0, profiler.ErrCapacityExceeded
	}

	s.records[s.count] = record
	s.count++

	return profiler.RecordID(s.count), nil
}

// Snapshot returns a copy of the stored records.
func (s *BoundedStore) Snapshot() profiler.EventRecords {
	snapshot := make(profiler.EventRecords, s.count)
	copy(snapshot, s.records[:s.count])

	return snapshot
}

// Len returns the number of stored records.
func (s *BoundedStore) Len() int {
	return s.count
}

// Capacity returns the fixed capacity.
func (s *BoundedStore) Capacity() int {
	return len(s.records)
}

var _ Store = (*BoundedStore)(nil)
