package postgresengine

import (
	"context"
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildDeleteQueryFailed = "failed to build delete query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildRecordFailed      = "failed to build event record from database row"
	logMsgRecordsExported        = "records exported"
	logMsgRecordsSkipped         = "records already exported for window skipped"
	logMsgRecordsLoaded          = "records loaded"
	logMsgWindowDeleted          = "window deleted"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperationFailed        = "sink operation failed: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrName                  = "name"
	logAttrWindowID              = "window_id"
	logAttrRecordCount           = "record_count"
	logAttrSkippedCount          = "skipped_count"
	logAttrDurationMS            = "duration_ms"
	metricOperationDuration      = "profiler_sink_duration_seconds"
	metricOperationErrors        = "profiler_sink_errors_total"
	metricOperationRecords       = "profiler_sink_records"
	labelOperation               = "operation"
	labelStatus                  = "status"
	labelErrorType               = "error_type"
	spanNamePrefix               = "profiler.sink."
	spanAttrOperation            = "operation"
	spanAttrTable                = "table"
	spanAttrWindowID             = "window_id"
	spanAttrRecordCount          = "record_count"
	spanAttrDurationMS           = "duration_ms"
	spanAttrErrorType            = "error_type"
	operationCreateTable         = "create_table"
	operationExport              = "export"
	operationLoad                = "load"
	operationDeleteWindow        = "delete_window"
	errorTypeBuildQuery          = "build_query_error"
	errorTypeDatabaseQuery       = "database_query_error"
	errorTypeDatabaseExec        = "database_exec_error"
	errorTypeRowScan             = "row_scan_error"
	statusSuccess                = "success"
	statusError                  = "error"
)

// operationObservation carries the timing and span of one sink operation.
type operationObservation struct {
	sink      Sink
	ctx       context.Context
	operation string
	start     time.Time
	span      profiler.SpanContext
}

// startOperation starts timing an operation and opens a span if tracing is configured.
func (s Sink) startOperation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, operationObservation) {

	observation := operationObservation{sink: s, ctx: ctx, operation: operation, start: time.Now()}

	if s.tracingCollector == nil {
		return ctx, observation
	}

	spanAttrs := map[string]string{spanAttrOperation: operation, spanAttrTable: s.tableName}
	maps.Copy(spanAttrs, attrs)

	spanCtx, span := s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)
	observation.ctx = spanCtx
	observation.span = span

	return spanCtx, observation
}

// succeeded records duration and record count metrics and finishes the span.
func (o operationObservation) succeeded(recordCount int64) {
	duration := time.Since(o.start)

	o.sink.recordDuration(o.ctx, o.operation, statusSuccess, duration)
	o.sink.recordValue(o.ctx, metricOperationRecords, float64(recordCount), o.operation)

	if o.sink.tracingCollector == nil || o.span == nil {
		return
	}

	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	o.sink.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRecordCount: fmt.Sprintf("%d", recordCount),
	})
}

// failed records duration and error metrics and finishes the span with the error type.
func (o operationObservation) failed(errorType string, err error) {
	o.sink.recordDuration(o.ctx, o.operation, statusError, time.Since(o.start))
	o.sink.recordError(o.ctx, o.operation, errorType)
	o.sink.logErrorContext(o.ctx, logMsgOperationFailed+o.operation, err)

	if o.sink.tracingCollector == nil || o.span == nil {
		return
	}

	o.span.AddAttribute(spanAttrErrorType, errorType)
	o.sink.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// logQueryWithDuration logs the executed SQL statement at debug level.
func (s Sink) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs at info level, preferring the contextual logger.
func (s Sink) logOperation(ctx context.Context, message string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, message, args...)
		return
	}

	if s.logger != nil {
		s.logger.Info(message, args...)
	}
}

// logErrorContext logs at error level through the contextual logger only.
func (s Sink) logErrorContext(ctx context.Context, message string, err error) {
	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, logAttrError, err.Error())
	}
}

// logError logs at error level if the logger is configured.
func (s Sink) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// logWarn logs at warn level if the logger is configured.
func (s Sink) logWarn(message string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (s Sink) recordDuration(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelStatus: status}

	if contextualCollector, ok := s.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (s Sink) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation}

	if contextualCollector, ok := s.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}

func (s Sink) recordError(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelOperation: operation, labelStatus: statusError, labelErrorType: errorType}

	if contextualCollector, ok := s.metricsCollector.(profiler.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricOperationErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricOperationErrors, labels)
}
