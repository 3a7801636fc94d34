package profiler

import (
	"slices"
)

/***** RecordFilter *****/

// RecordFilter selects EventRecord(s) by name, origin and start time.
//
// All configured criteria must match (AND), within names and origins ANY value may match (OR).
// An empty RecordFilter matches every record.
type RecordFilter struct {
	names        []string
	origins      []string
	startedFrom  Nanoseconds
	startedUntil Nanoseconds
	hasStartSpan bool
}

func (f RecordFilter) Names() []string {
	return f.names
}

func (f RecordFilter) Origins() []string {
	return f.origins
}

// StartSpan returns the inclusive start timestamp range and whether it was configured.
func (f RecordFilter) StartSpan() (from Nanoseconds, until Nanoseconds, ok bool) {
	return f.startedFrom, f.startedUntil, f.hasStartSpan
}

// IsEmpty reports whether the filter has no criteria at all.
func (f RecordFilter) IsEmpty() bool {
	return len(f.names) == 0 && len(f.origins) == 0 && !f.hasStartSpan
}

// Matches reports whether the record satisfies all criteria of the filter.
func (f RecordFilter) Matches(record EventRecord) bool {
	if len(f.names) > 0 && !slices.Contains(f.names, record.Name) {
		return false
	}

	if len(f.origins) > 0 && !slices.Contains(f.origins, record.Origin) {
		return false
	}

	if f.hasStartSpan && (record.StartNS < f.startedFrom || record.StartNS > f.startedUntil) {
		return false
	}

	return true
}

// Apply returns the matching records in their original order.
func (f RecordFilter) Apply(records EventRecords) EventRecords {
	if f.IsEmpty() {
		return records
	}

	matching := make(EventRecords, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			matching = append(matching, record)
		}
	}

	return matching
}

/***** RecordFilterBuilder *****/

// RecordFilterBuilder builds a RecordFilter that can be evaluated in memory or translated
// into a query by a storage-specific sink.
type RecordFilterBuilder interface {
	// AnyNameOf adds one or multiple record names.
	//
	// It sanitizes the input:
	//	- removing empty names ("")
	//	- sorting the names
	//	- removing duplicate names
	AnyNameOf(name string, names ...string) RecordFilterBuilder

	// AnyOriginOf adds one or multiple record origins, sanitized like AnyNameOf.
	AnyOriginOf(origin string, origins ...string) RecordFilterBuilder

	// StartedBetween restricts the start timestamp to the inclusive range [from, until].
	// Swapped bounds are put into order.
	StartedBetween(from Nanoseconds, until Nanoseconds) RecordFilterBuilder

	// Finalize returns the RecordFilter.
	Finalize() RecordFilter

	// MatchingAnyRecord directly creates an empty RecordFilter.
	MatchingAnyRecord() RecordFilter
}

type recordFilterBuilder struct {
	filter RecordFilter
}

// BuildRecordFilter creates a RecordFilterBuilder which must eventually be finalized with Finalize() or MatchingAnyRecord().
func BuildRecordFilter() RecordFilterBuilder {
	return recordFilterBuilder{}
}

func (fb recordFilterBuilder) AnyNameOf(name string, names ...string) RecordFilterBuilder {
	fb.filter.names = sanitizeStrings(append(slices.Clone(fb.filter.names), append([]string{name}, names...)...))

	return fb
}

func (fb recordFilterBuilder) AnyOriginOf(origin string, origins ...string) RecordFilterBuilder {
	fb.filter.origins = sanitizeStrings(append(slices.Clone(fb.filter.origins), append([]string{origin}, origins...)...))

	return fb
}

func (fb recordFilterBuilder) StartedBetween(from Nanoseconds, until Nanoseconds) RecordFilterBuilder {
	if until < from {
		from, until = until, from
	}

	fb.filter.startedFrom = from
	fb.filter.startedUntil = until
	fb.filter.hasStartSpan = true

	return fb
}

func (fb recordFilterBuilder) Finalize() RecordFilter {
	return fb.filter
}

func (fb recordFilterBuilder) MatchingAnyRecord() RecordFilter {
	return RecordFilter{}
}

func sanitizeStrings(values []string) []string {
	values = slices.DeleteFunc(values, func(v string) bool { return v == "" })
	slices.Sort(values)
	values = slices.Compact(values)

	return slices.Clip(values)
}
