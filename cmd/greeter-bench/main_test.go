package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/call-profiler-go/testutil/profiler/helper"
)

func Test_Run_ProfilesCallsAgainstTheInProcessServer(t *testing.T) {
	// setup
	dir := t.TempDir()
	resultFile := filepath.Join(dir, "result.csv")
	jsonSummary := filepath.Join(dir, "summary.json")
	var console, logs bytes.Buffer

	// act
	err := run(context.Background(), []string{
		"-runs", "5",
		"-report-dir", dir,
		"-result-file", resultFile,
		"-json-summary", jsonSummary,
		"-truncate",
	}, &console, &logs)

	// assert
	require.NoError(t, err)

	output := console.String()
	assert.Contains(t, output, "000 Run: ")
	assert.Contains(t, output, "004 Run: ")
	assert.Contains(t, output, "SORTED Result")
	assert.Contains(t, output, "BlockingUnaryCall, Start:")
	assert.Contains(t, output, "Origin:grpc.client,")
	assert.Contains(t, logs.String(), logMsgBenchmarkFinished)

	lines := helper.ReadLines(t, resultFile)
	assert.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), 3, line)
	}

	reports, globErr := filepath.Glob(filepath.Join(dir, "*_Benchmark_HealthCheck.csv"))
	require.NoError(t, globErr)
	assert.Len(t, reports, 1)

	summary, readErr := os.ReadFile(jsonSummary)
	require.NoError(t, readErr)
	assert.Contains(t, string(summary), `"count": 5`)
}

func Test_Run_When_TargetIsUnreachable_Fails(t *testing.T) {
	// setup
	var console, logs bytes.Buffer

	// act
	err := run(context.Background(), []string{
		"-runs", "1",
		"-target", "127.0.0.1:1",
		"-report-dir", t.TempDir(),
	}, &console, &logs)

	// assert
	assert.ErrorIs(t, err, errCallFailed)
}
