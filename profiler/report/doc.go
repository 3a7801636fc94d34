// Package report renders profiler data for humans and for offline analysis.
//
// A Reporter reads snapshots from a RecordSource (usually a memoryengine.Recorder) and writes:
//   - a console summary of every record (PrintSummary)
//   - the result CSV with one "name,start_ns,duration_ns" line per record, appended (ExportToFile)
//   - both of the above in one go (PrintAllProfileStats)
//   - the latency distribution of a LatencySamples buffer (PrintLatencyDistribution)
//   - a timestamped benchmark report file with monotonic and CPU time columns (WriteBenchmarkReport)
//   - a JSON summary (WriteJSONSummary)
//
// File failures never suppress console output. The console part is always written first and the
// file error is returned afterward, joined with ErrExportFailed.
//
// The result CSV is never truncated implicitly, TruncateResultFile starts a fresh file.
package report
