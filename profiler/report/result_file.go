package report

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// ExportToFile appends one "name,start_ns,duration_ns" line per record to the file at path,
// creating it if needed. Existing content is never removed, two exports of N records leave 2N lines.
// The file is closed on every path, a failing close is reported like a failing write.
func (r *Reporter) ExportToFile(ctx context.Context, path string) error {
	records := r.source.AllRecords()

	ctx, span := r.startExportSpan(ctx, operationExportResultFile, path, len(records))
	start := time.Now()

	if err := appendResultLines(path, records); err != nil {
		duration := time.Since(start)
		r.logErrorContext(ctx, logMsgExportFailed, err, logAttrPath, path, logAttrRecordCount, len(records))
		r.recordErrorMetrics(ctx, operationExportResultFile)
		r.recordDurationMetrics(ctx, operationExportResultFile, statusError, duration)
		r.finishSpanError(span, errorTypeFileWrite)

		return err
	}

	duration := time.Since(start)
	r.logOperationContext(
		ctx,
		logMsgExportCompleted,
		logAttrPath, path,
		logAttrRecordCount, len(records),
		logAttrDurationMS, toMilliseconds(duration),
	)
	r.recordDurationMetrics(ctx, operationExportResultFile, statusSuccess, duration)
	r.recordValueMetrics(ctx, metricExportedRecords, float64(len(records)), operationExportResultFile)
	r.finishSpanSuccess(span, len(records), duration)

	return nil
}

// PrintAllProfileStats prints the console summary and then appends the records to the result file.
// The console output is complete even if the file cannot be written, the file error is returned afterward.
func (r *Reporter) PrintAllProfileStats(ctx context.Context, path string) error {
	consoleErr := r.PrintSummary()
	exportErr := r.ExportToFile(ctx, path)

	return errors.Join(consoleErr, exportErr)
}

// TruncateResultFile empties the file at path, creating it if needed.
// Use it before a benchmark run that should start with a fresh result file.
func TruncateResultFile(path string) (err error) {
	file, openErr := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, resultFilePerm) //nolint:gosec
	if openErr != nil {
		return errors.Join(ErrTruncateFailed, openErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return errors.Join(ErrTruncateFailed, closeErr)
	}

	return nil
}

func appendResultLines(path string, records profiler.EventRecords) (err error) {
	file, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, resultFilePerm) //nolint:gosec
	if openErr != nil {
		return errors.Join(ErrExportFailed, openErr)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, ErrExportFailed, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	for _, record := range records {
		line := []string{
			record.Name,
			strconv.FormatUint(record.StartNS, 10),
			strconv.FormatUint(record.DurationNS, 10),
		}

		if writeErr := writer.Write(line); writeErr != nil {
			return errors.Join(ErrExportFailed, writeErr)
		}
	}

	writer.Flush()
	if flushErr := writer.Error(); flushErr != nil {
		return errors.Join(ErrExportFailed, flushErr)
	}

	return nil
}
