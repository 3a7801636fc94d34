package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	logMsgExportCompleted         = "records exported to result file"
	logMsgExportFailed            = "exporting records to result file failed"
	logMsgBenchmarkReportWritten  = "benchmark report written"
	logMsgBenchmarkReportFailed   = "writing benchmark report failed"
	logMsgConsoleWriteFailed      = "writing to console failed"
	logMsgClockAnomalies          = "records with end before start found, durations wrapped around"
	logMsgJSONSummaryFailed       = "writing json summary failed"
	logAttrError                  = "error"
	logAttrPath                   = "path"
	logAttrRecordCount            = "record_count"
	logAttrRunCount               = "run_count"
	logAttrAnomalyCount           = "anomaly_count"
	logAttrDurationMS             = "duration_ms"
	metricExportDuration          = "profiler_export_duration_seconds"
	metricExportErrors            = "profiler_export_errors_total"
	metricExportedRecords         = "profiler_exported_records"
	spanNameExport                = "profiler.report.export"
	spanAttrOperation             = "operation"
	spanAttrPath                  = "path"
	spanAttrItemCount             = "item_count"
	spanAttrDurationMS            = "duration_ms"
	spanAttrErrorType             = "error_type"
	operationExportResultFile     = "export_result_file"
	operationWriteBenchmarkReport = "write_benchmark_report"
	errorTypeFileWrite            = "file_write_error"
	statusSuccess                 = "success"
	statusError                   = "error"
	labelOperation                = "operation"
	labelStatus                   = "status"
)

// logOperationContext logs at info level, preferring the contextual logger.
func (r *Reporter) logOperationContext(ctx context.Context, message string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, message, args...)
		return
	}

	if r.logger != nil {
		r.logger.Info(message, args...)
	}
}

// logErrorContext logs at error level, preferring the contextual logger.
func (r *Reporter) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if r.logger != nil {
		r.logger.Error(message, allArgs...)
	}
}

// logError logs at error level if the logger is configured.
func (r *Reporter) logError(message string, err error, args ...any) {
	if r.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		r.logger.Error(message, allArgs...)
	}
}

// logWarn logs at warn level if the logger is configured.
func (r *Reporter) logWarn(message string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetrics records the export duration, with context if the collector supports it.
func (r *Reporter) recordDurationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelStatus: status}

	if contextualCollector, ok := r.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricExportDuration, duration, labels)
		return
	}

	r.metricsCollector.RecordDuration(metricExportDuration, duration, labels)
}

// recordValueMetrics records a value, with context if the collector supports it.
func (r *Reporter) recordValueMetrics(ctx context.Context, metric string, value float64, operation string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation}

	if contextualCollector, ok := r.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	r.metricsCollector.RecordValue(metric, value, labels)
}

// recordErrorMetrics counts a failed export, with context if the collector supports it.
func (r *Reporter) recordErrorMetrics(ctx context.Context, operation string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelStatus: statusError, spanAttrErrorType: errorTypeFileWrite}

	if contextualCollector, ok := r.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricExportErrors, labels)
		return
	}

	r.metricsCollector.IncrementCounter(metricExportErrors, labels)
}

// startExportSpan starts a tracing span if the tracing collector is configured.
func (r *Reporter) startExportSpan(ctx context.Context, operation, path string, itemCount int) (context.Context, profiler.SpanContext) {
	if r.tracingCollector == nil {
		return ctx, nil
	}

	return r.tracingCollector.StartSpan(ctx, spanNameExport, map[string]string{
		spanAttrOperation: operation,
		spanAttrPath:      path,
		spanAttrItemCount: fmt.Sprintf("%d", itemCount),
	})
}

// finishSpanSuccess finishes a successful export span.
func (r *Reporter) finishSpanSuccess(span profiler.SpanContext, itemCount int, duration time.Duration) {
	if r.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	r.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{spanAttrItemCount: fmt.Sprintf("%d", itemCount)})
}

// finishSpanError finishes an export span with error details.
func (r *Reporter) finishSpanError(span profiler.SpanContext, errorType string) {
	if r.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrErrorType, errorType)
	r.tracingCollector.FinishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}
