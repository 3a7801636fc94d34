package profiler

// Recorder collects EventRecord(s) in arrival order.
//
// Implementations must be safe for concurrent use: Record may be called from many goroutines
// while AllRecords is called from another one.
type Recorder interface {
	// Record builds an EventRecord from the given timestamps and appends it to the Event Log.
	// The returned RecordID is the 1-based position of the record in the log.
	Record(name string, startNS, endNS Nanoseconds, origin, description string) (RecordID, error)

	// AllRecords returns a snapshot copy of all records in arrival order.
	AllRecords() EventRecords
}
