package stores

import (
	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// GrowableStore keeps an unbounded number of records.
type GrowableStore struct {
	records profiler.EventRecords
}

// NewGrowableStore creates a GrowableStore with room for preallocate records before the first reallocation.
func NewGrowableStore(preallocate int) *GrowableStore {
	if preallocate < 0 {
		preallocate = 0
	}

	return &GrowableStore{records: make(profiler.EventRecords, 0, preallocate)}
}

// Append adds the record, it never fails.
func (s *GrowableStore) Append(record profiler.EventRecord) (profiler.RecordID, error) {
	s.records = append(s.records, record)

	return profiler.RecordID(len(s.records)), nil
}

// Snapshot returns a copy of all records.
func (s *GrowableStore) Snapshot() profiler.EventRecords {
	snapshot := make(profiler.EventRecords, len(s.records))
	copy(snapshot, s.records)

	return snapshot
}

// Len returns the number of stored records.
func (s *GrowableStore) Len() int {
	return len(s.records)
}

// Capacity returns 0, the store is unbounded.
func (s *GrowableStore) Capacity() int {
	return 0
}

var _ Store = (*GrowableStore)(nil)
