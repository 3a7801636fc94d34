package report_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/call-profiler-go/profiler/report"
	. "github.com/AntonStoeckl/call-profiler-go/testutil/profiler/helper" //nolint:revive
)

func Test_Observability_ExportToFile_LogsMetricsAndTraces(t *testing.T) {
	// setup
	recorder := givenRecorder(t)
	logger, logSpy := NewSpyLogger()
	metricsSpy := NewMetricsCollectorSpy()
	tracingSpy := NewTracingCollectorSpy()
	reporter, _ := givenReporter(
		t,
		recorder,
		report.WithLogger(logger),
		report.WithMetrics(metricsSpy),
		report.WithTracing(tracingSpy),
	)
	path := TempFilePath(t, report.DefaultResultFile)
	GivenRecordsWereRecorded(t, recorder, "RecvMessage", 3)

	// act
	err := reporter.ExportToFile(context.Background(), path)

	// assert
	require.NoError(t, err)
	assert.True(t, logSpy.HasInfoLogWithMessage("records exported to result file").
		WithAttrValue("record_count", "3").
		WithDurationMS().
		Assert())
	assert.True(t, metricsSpy.HasDurationRecordForMetric("profiler_export_duration_seconds").
		WithLabel("operation", "export_result_file").
		WithLabel("status", "success").
		Assert())
	assert.True(t, metricsSpy.HasValueRecordForMetric("profiler_exported_records").Assert())

	span, found := tracingSpy.FindSpan("profiler.report.export")
	require.True(t, found)
	assert.Equal(t, "success", span.Status)
	assert.Equal(t, "3", span.StartAttributes["item_count"])
	assert.Equal(t, path, span.StartAttributes["path"])
	assert.Contains(t, span.SpanContext.GetAttributes(), "duration_ms")
}

func Test_Observability_ExportToFile_When_Failing_RecordsError(t *testing.T) {
	recorder := givenRecorder(t)
	metricsSpy := NewMetricsCollectorSpy()
	tracingSpy := NewTracingCollectorSpy()
	reporter, _ := givenReporter(t, recorder, report.WithMetrics(metricsSpy), report.WithTracing(tracingSpy))

	err := reporter.ExportToFile(context.Background(), filepath.Join(t.TempDir(), "missing", "result.csv"))

	require.ErrorIs(t, err, report.ErrExportFailed)
	assert.Equal(t, 1, metricsSpy.CountCounterRecordsForMetric("profiler_export_errors_total"))
	span, found := tracingSpy.FindSpan("profiler.report.export")
	require.True(t, found)
	assert.Equal(t, "error", span.Status)
	assert.Equal(t, "file_write_error", span.EndAttributes["error_type"])
}

func Test_Observability_ExportToFile_PrefersContextualLogger(t *testing.T) {
	recorder := givenRecorder(t)
	plainLogger, plainSpy := NewSpyLogger()
	contextualLogger, contextualSpy := NewSpyLogger()
	reporter, _ := givenReporter(t, recorder, report.WithLogger(plainLogger), report.WithContextualLogger(contextualLogger))

	require.NoError(t, reporter.ExportToFile(context.Background(), TempFilePath(t, report.DefaultResultFile)))

	assert.True(t, contextualSpy.HasInfoLogWithMessage("records exported to result file").Assert())
	assert.Zero(t, plainSpy.GetRecordCount())
}
