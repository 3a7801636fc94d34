package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/call-profiler-go/profiler/report"
)

func Test_ParseFlags_Defaults(t *testing.T) {
	// act
	cfg, err := parseFlags(nil, io.Discard)

	// assert
	require.NoError(t, err)
	assert.Equal(t, defaultRuns, cfg.Runs)
	assert.Equal(t, report.DefaultResultFile, cfg.ResultFile)
	assert.Equal(t, adapterPGX, cfg.PostgresAdapter)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.Target)
	assert.False(t, cfg.Truncate)
}

func Test_ParseFlags_ReadsAllFlags(t *testing.T) {
	// act
	cfg, err := parseFlags([]string{
		"-runs", "1000",
		"-target", "localhost:50051",
		"-truncate",
		"-postgres-adapter", "sqlx",
		"-log-level", "debug",
		"-capacity", "255",
	}, io.Discard)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Runs)
	assert.Equal(t, "localhost:50051", cfg.Target)
	assert.True(t, cfg.Truncate)
	assert.Equal(t, adapterSQLX, cfg.PostgresAdapter)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 255, cfg.Capacity)
}

func Test_ParseFlags_When_ValuesAreInvalid_Fails(t *testing.T) {
	testCases := map[string]struct {
		args        []string
		expectedErr error
	}{
		"no runs":         {args: []string{"-runs", "0"}, expectedErr: errInvalidRuns},
		"too many runs":   {args: []string{"-runs", "1001"}, expectedErr: errInvalidRuns},
		"unknown adapter": {args: []string{"-postgres-adapter", "mysql"}, expectedErr: errInvalidAdapter},
		"unknown level":   {args: []string{"-log-level", "loud"}, expectedErr: errInvalidLogLevel},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			_, err := parseFlags(tc.args, io.Discard)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
