package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/call-profiler-go/profiler/oteladapters"
)

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func attributeValue(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_RecordsStartAndFinishAttributes(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "profiler.report.export", map[string]string{
		"operation": "export_result_file",
		"path":      "result.csv",
	})
	spanCtx.AddAttribute("duration_ms", "1.25")
	collector.FinishSpan(spanCtx, "success", map[string]string{"item_count": "3"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "profiler.report.export", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	for key, expected := range map[string]string{
		"operation":   "export_result_file",
		"path":        "result.csv",
		"duration_ms": "1.25",
		"item_count":  "3",
	} {
		value, found := attributeValue(spans[0], key)
		assert.True(t, found, key)
		assert.Equal(t, expected, value, key)
	}
}

func Test_TracingCollector_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
		expectedDesc string
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error, expectedDesc: "Operation failed"},
		{status: "canceled", expectedCode: codes.Error, expectedDesc: "Operation cancelled"},
		{status: "timeout", expectedCode: codes.Error, expectedDesc: "Operation timed out"},
		{status: "rejected", expectedCode: codes.Error, expectedDesc: "Record rejected"},
		{status: "partial", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// setup
			collector, exporter := givenTracingCollector()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDesc, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_When_StatusIsUnknown_KeepsItAsAttribute(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "op", nil)
	collector.FinishSpan(spanCtx, "partial", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes, attribute.String("status", "partial"))
}

func Test_TracingCollector_When_SpanIsForeign_IgnoresIt(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	collector.FinishSpan(nil, "success", nil)

	// assert
	assert.Empty(t, exporter.GetSpans())
}

func Test_TracingCollector_NestsSpansFromContext(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	parentCtx, parent := collector.StartSpan(context.Background(), "parent", nil)
	_, child := collector.StartSpan(parentCtx, "child", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}
