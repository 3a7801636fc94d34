package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/call-profiler-go/profiler/oteladapters"
)

// recordingLogger keeps emitted OpenTelemetry log records.
type recordingLogger struct {
	noop.Logger
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.records = append(l.records, record)
}

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	assert.NotNil(t, oteladapters.NewSlogBridgeLogger("test"))
}

func Test_SlogBridgeLogger_LogsAllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "record_count", 3)
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message", "error", "disk full")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message","record_count":3`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message","error":"disk full"`)
}

func Test_OTelLogger_EmitsRecordsWithSeverityAndTypedAttributes(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(context.Background(), "records exported to result file",
		"path", "result.csv",
		"record_count", 3,
		"duration_ms", 1.5,
		"dangling",
	)

	// assert
	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, log.SeverityInfo, record.Severity())
	assert.Equal(t, "records exported to result file", record.Body().AsString())

	attrs := map[string]log.Value{}
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})
	require.Len(t, attrs, 3)
	assert.Equal(t, "result.csv", attrs["path"].AsString())
	assert.Equal(t, int64(3), attrs["record_count"].AsInt64())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0)
}

func Test_OTelLogger_MapsLevelsToSeverities(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "d")
	logger.WarnContext(ctx, "w")
	logger.ErrorContext(ctx, "e")

	// assert
	require.Len(t, recorder.records, 3)
	assert.Equal(t, log.SeverityDebug, recorder.records[0].Severity())
	assert.Equal(t, log.SeverityWarn, recorder.records[1].Severity())
	assert.Equal(t, log.SeverityError, recorder.records[2].Severity())
}
