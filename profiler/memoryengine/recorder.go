package memoryengine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
	"github.com/AntonStoeckl/call-profiler-go/profiler/memoryengine/internal/stores"
)

const (
	logMsgRecordAppended    = "record appended"
	logMsgRecordRejected    = "record rejected"
	logMsgClockAnomaly      = "record end lies before its start, duration wrapped around"
	logMsgBuildRecordFailed = "failed to build event record"
	logAttrError            = "error"
	logAttrName             = "name"
	logAttrOrigin           = "origin"
	logAttrRecordID         = "record_id"
	logAttrDurationNS       = "duration_ns"
	logAttrCapacity         = "capacity"
	logAttrStartNS          = "start_ns"
	logAttrEndNS            = "end_ns"
	metricRecordsTotal      = "profiler_records_total"
	metricRecordsRejected   = "profiler_records_rejected_total"
	metricClockAnomalies    = "profiler_clock_anomalies_total"
	labelStore              = "store"
	labelReason             = "reason"
	storeGrowable           = "growable"
	storeBounded            = "bounded"
	reasonCapacityExceeded  = "capacity_exceeded"
	reasonInvalidRecord     = "invalid_record"
)

// Recorder is the in-memory profiler.Recorder. It is safe for concurrent use.
type Recorder struct {
	mu               sync.Mutex
	store            stores.Store
	capacity         int
	preallocate      int
	windowID         uuid.UUID
	logger           profiler.Logger
	metricsCollector profiler.MetricsCollector
	storeLabels      map[string]string
}

// NewRecorder creates a Recorder with an unbounded Event Log unless WithCapacity is given.
func NewRecorder(options ...Option) (*Recorder, error) {
	r := &Recorder{}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	if r.windowID == uuid.Nil {
		windowID, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}

		r.windowID = windowID
	}

	storeKind := storeGrowable
	if r.capacity > 0 {
		bounded, err := stores.NewBoundedStore(r.capacity)
		if err != nil {
			return nil, err
		}

		r.store = bounded
		storeKind = storeBounded
	} else {
		r.store = stores.NewGrowableStore(r.preallocate)
	}

	// shared read-only by all metric calls
	r.storeLabels = map[string]string{labelStore: storeKind}

	return r, nil
}

// Record builds an EventRecord and appends it to the Event Log.
//
// The record is built before the lock is taken, the lock covers only the append.
// Returns profiler.ErrEmptyRecordName for an empty name and profiler.ErrCapacityExceeded
// when a bounded Event Log is full. In both cases nothing is appended.
func (r *Recorder) Record(
	name string,
	startNS, endNS profiler.Nanoseconds,
	origin, description string,
) (profiler.RecordID, error) {

	record, buildErr := profiler.BuildEventRecord(name, startNS, endNS, origin, description)
	if buildErr != nil {
		r.logRejected(logMsgBuildRecordFailed, buildErr, name, origin)
		r.incrementCounter(metricRecordsRejected, reasonInvalidRecord)

		return 0, buildErr
	}

	r.mu.Lock()
	id, appendErr := r.store.Append(record)
	r.mu.Unlock()

	if appendErr != nil {
		r.logRejected(logMsgRecordRejected, appendErr, name, origin, logAttrCapacity, r.capacity)
		r.incrementCounter(metricRecordsRejected, reasonCapacityExceeded)

		return 0, appendErr
	}

	r.incrementCounter(metricRecordsTotal, "")

	if record.ClockAnomaly() {
		r.logClockAnomaly(record)
		r.incrementCounter(metricClockAnomalies, "")
	}

	r.logAppended(id, record)

	return id, nil
}

// AllRecords returns a copy of the Event Log in arrival order.
func (r *Recorder) AllRecords() profiler.EventRecords {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Snapshot()
}

// Query returns a copy of the records matching the filter in arrival order.
func (r *Recorder) Query(filter profiler.RecordFilter) profiler.EventRecords {
	return filter.Apply(r.AllRecords())
}

// Len returns the number of records in the Event Log.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Len()
}

// Capacity returns the capacity of a bounded Event Log, 0 if it is unbounded.
func (r *Recorder) Capacity() int {
	return r.store.Capacity()
}

// WindowID returns the measurement window ID of this Event Log.
func (r *Recorder) WindowID() uuid.UUID {
	return r.windowID
}

var _ profiler.Recorder = (*Recorder)(nil)
