package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
	"github.com/AntonStoeckl/call-profiler-go/profiler/report"
)

const (
	defaultRuns          = 100
	defaultTitle         = "HealthCheck"
	defaultListenAddress = "127.0.0.1:0"
	defaultStreamWorkers = 0
	defaultPostgresTable = "profiler_records"

	adapterPGX  = "pgx"
	adapterSQL  = "sql"
	adapterSQLX = "sqlx"
)

var errInvalidRuns = errors.New("runs out of range")
var errInvalidAdapter = errors.New("unknown postgres adapter")
var errInvalidLogLevel = errors.New("unknown log level")

// Config holds all benchmark driver configuration parameters.
type Config struct {
	Runs            int
	Title           string
	Target          string
	ListenAddress   string
	StreamWorkers   uint
	Capacity        int
	ResultFile      string
	Truncate        bool
	ReportDir       string
	JSONSummary     string
	PostgresDSN     string
	PostgresAdapter string
	PostgresTable   string
	OTLPEndpoint    string
	LogLevel        slog.Level
}

// parseFlags parses command line arguments and returns the validated configuration.
func parseFlags(args []string, output io.Writer) (Config, error) {
	flags := flag.NewFlagSet("greeter-bench", flag.ContinueOnError)
	flags.SetOutput(output)

	var (
		runs            = flags.Int("runs", defaultRuns, fmt.Sprintf("Number of unary calls, at most %d", profiler.DefaultMaxRuns))
		title           = flags.String("title", defaultTitle, "Benchmark name used in the report file name")
		target          = flags.String("target", "", "Address of a running health service; empty starts one in-process")
		listenAddress   = flags.String("listen", defaultListenAddress, "Listen address of the in-process server")
		streamWorkers   = flags.Uint("stream-workers", defaultStreamWorkers, "Stream workers of the in-process server, 0 for one goroutine per stream")
		capacity        = flags.Int("capacity", 0, "Capacity of a bounded Event Log, 0 for unbounded")
		resultFile      = flags.String("result-file", report.DefaultResultFile, "Result CSV the Event Log is appended to")
		truncate        = flags.Bool("truncate", false, "Truncate the result CSV before exporting")
		reportDir       = flags.String("report-dir", ".", "Directory of the benchmark report")
		jsonSummary     = flags.String("json-summary", "", "Write a JSON summary to this file")
		postgresDSN     = flags.String("postgres-dsn", "", "Also export the Event Log to PostgreSQL")
		postgresAdapter = flags.String("postgres-adapter", adapterPGX, "Database adapter: pgx, sql or sqlx")
		postgresTable   = flags.String("postgres-table", defaultPostgresTable, "Records table name")
		otlpEndpoint    = flags.String("otlp-endpoint", "", "OTLP/HTTP endpoint for traces, e.g. localhost:4318")
		logLevel        = flags.String("log-level", "info", "Log level: debug, info, warn or error")
	)

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if *runs < 1 || *runs > profiler.DefaultMaxRuns {
		return Config{}, fmt.Errorf("%w: %d not in [1, %d]", errInvalidRuns, *runs, profiler.DefaultMaxRuns)
	}

	switch *postgresAdapter {
	case adapterPGX, adapterSQL, adapterSQLX:
	default:
		return Config{}, fmt.Errorf("%w: %s", errInvalidAdapter, *postgresAdapter)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return Config{}, errors.Join(errInvalidLogLevel, err)
	}

	return Config{
		Runs:            *runs,
		Title:           *title,
		Target:          *target,
		ListenAddress:   *listenAddress,
		StreamWorkers:   *streamWorkers,
		Capacity:        *capacity,
		ResultFile:      *resultFile,
		Truncate:        *truncate,
		ReportDir:       *reportDir,
		JSONSummary:     *jsonSummary,
		PostgresDSN:     *postgresDSN,
		PostgresAdapter: *postgresAdapter,
		PostgresTable:   *postgresTable,
		OTLPEndpoint:    *otlpEndpoint,
		LogLevel:        level,
	}, nil
}
