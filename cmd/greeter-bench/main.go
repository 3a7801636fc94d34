// Command greeter-bench profiles unary gRPC health checks and writes the profiler reports.
//
// Without -target it starts an in-process health service through grpcprofile.ServerBuilder.
// Every call is recorded per transport phase on both ends; per-run wall and CPU latencies
// go into the latency report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/AntonStoeckl/call-profiler-go/grpcprofile"
	"github.com/AntonStoeckl/call-profiler-go/profiler"
	"github.com/AntonStoeckl/call-profiler-go/profiler/memoryengine"
	"github.com/AntonStoeckl/call-profiler-go/profiler/report"
)

const (
	logMsgRecordFailed      = "recording failed"
	logMsgCPUClockMissing   = "process cpu clock unavailable, cpu latencies are reported as 0"
	logMsgServerStarted     = "in-process health service started"
	logMsgTruncateFailed    = "truncating result file failed"
	logMsgReportFailed      = "profiling report failed"
	logMsgPostgresFailed    = "exporting to postgres failed"
	logMsgShutdownFailed    = "shutdown failed"
	logMsgBenchmarkFinished = "benchmark finished"
	logAttrError            = "error"
	logAttrName             = "name"
	logAttrAddress          = "address"
	logAttrReport           = "report"
	logAttrRuns             = "runs"
	logAttrRecords          = "record_count"
)

var errCallFailed = errors.New("health check call failed")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("greeter-bench failed: %v", err)
	}
}

// run executes the benchmark. Only setup and call failures are returned, profiling failures are logged.
func run(ctx context.Context, args []string, console io.Writer, logOutput io.Writer) error {
	cfg, err := parseFlags(args, logOutput)
	if err != nil {
		return err
	}

	obs, err := newObservability(ctx, cfg, logOutput)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := obs.shutdown(); shutdownErr != nil {
			obs.logger.Warn(logMsgShutdownFailed, logAttrError, shutdownErr.Error())
		}
	}()

	recorderOptions := []memoryengine.Option{memoryengine.WithLogger(obs.logger)}
	if cfg.Capacity > 0 {
		recorderOptions = append(recorderOptions, memoryengine.WithCapacity(cfg.Capacity))
	}

	recorder, err := memoryengine.NewRecorder(recorderOptions...)
	if err != nil {
		return err
	}

	stopwatch, err := profiler.NewStopwatch(recorder, profiler.NewMonotonicClock(),
		profiler.OnRecordError(func(op profiler.Operation, err error) {
			obs.logger.Warn(logMsgRecordFailed, logAttrName, op.Name, logAttrError, err.Error())
		}),
	)
	if err != nil {
		return err
	}

	target, stopServer, err := resolveTarget(cfg, stopwatch, obs)
	if err != nil {
		return err
	}
	defer stopServer()

	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(grpcprofile.NewClientStatsHandler(stopwatch)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	monotonic, cpu, err := measureRuns(ctx, cfg, healthpb.NewHealthClient(conn), console, obs)
	if err != nil {
		return err
	}

	writeReports(ctx, cfg, recorder, monotonic, cpu, console, obs)

	if cfg.PostgresDSN != "" {
		if pgErr := exportToPostgres(ctx, cfg, obs, recorder); pgErr != nil {
			obs.logger.Error(logMsgPostgresFailed, logAttrError, pgErr.Error())
		}
	}

	obs.logger.Info(logMsgBenchmarkFinished, logAttrRuns, cfg.Runs, logAttrRecords, recorder.Len())

	return nil
}

// resolveTarget returns the configured target or starts an in-process health service.
func resolveTarget(cfg Config, stopwatch profiler.Stopwatch, obs observability) (string, func(), error) {
	if cfg.Target != "" {
		return cfg.Target, func() {}, nil
	}

	builder, err := grpcprofile.NewServerBuilder(stopwatch,
		grpcprofile.WithStreamWorkers(uint32(cfg.StreamWorkers)), //nolint:gosec // flag values are small
		grpcprofile.WithServerOptions(grpc.StatsHandler(grpcprofile.NewServerStatsHandler(stopwatch))),
	)
	if err != nil {
		return "", nil, err
	}

	if err = builder.AddListeningPort(cfg.ListenAddress); err != nil {
		return "", nil, err
	}

	if err = builder.RegisterService(&healthpb.Health_ServiceDesc, health.NewServer()); err != nil {
		return "", nil, err
	}

	server, err := builder.BuildAndStart()
	if err != nil {
		return "", nil, err
	}

	address := server.Addr().String()
	obs.logger.Info(logMsgServerStarted, logAttrAddress, address)

	return address, func() {
		if shutdownErr := server.Shutdown(); shutdownErr != nil {
			obs.logger.Warn(logMsgShutdownFailed, logAttrError, shutdownErr.Error())
		}
	}, nil
}

// measureRuns performs the calls and stores per-run monotonic and process CPU latencies.
func measureRuns(
	ctx context.Context,
	cfg Config,
	client healthpb.HealthClient,
	console io.Writer,
	obs observability,
) (*profiler.LatencySamples, *profiler.LatencySamples, error) {

	monotonic := profiler.NewDefaultLatencySamples()
	cpu := profiler.NewDefaultLatencySamples()

	wallClock := profiler.NewMonotonicClock()
	var cpuClock profiler.Clock = profiler.ClockFunc(func() profiler.Nanoseconds { return 0 })
	if processClock, clockErr := profiler.NewProcessCPUClock(); clockErr == nil {
		cpuClock = processClock
	} else {
		obs.logger.Warn(logMsgCPUClockMissing, logAttrError, clockErr.Error())
	}

	for run := range cfg.Runs {
		wallStart, cpuStart := wallClock.Now(), cpuClock.Now()
		_, callErr := client.Check(ctx, &healthpb.HealthCheckRequest{})
		wallEnd, cpuEnd := wallClock.Now(), cpuClock.Now()

		if callErr != nil {
			return nil, nil, errors.Join(errCallFailed, callErr)
		}

		if err := errors.Join(monotonic.Set(run, wallEnd-wallStart), cpu.Set(run, cpuEnd-cpuStart)); err != nil {
			return nil, nil, err
		}

		if _, err := fmt.Fprintf(console, "%03d Run: %d ns, CPU: %d ns\n", run, wallEnd-wallStart, cpuEnd-cpuStart); err != nil {
			return nil, nil, err
		}
	}

	return monotonic, cpu, nil
}

// writeReports prints and writes every report, failures are logged and do not stop the others.
func writeReports(
	ctx context.Context,
	cfg Config,
	recorder *memoryengine.Recorder,
	monotonic, cpu *profiler.LatencySamples,
	console io.Writer,
	obs observability,
) {

	options := []report.Option{
		report.WithConsole(console),
		report.WithReportDir(cfg.ReportDir),
		report.WithLogger(obs.logger),
		report.WithContextualLogger(obs.contextualLogger),
	}
	if obs.tracing != nil {
		options = append(options, report.WithTracing(obs.tracing))
	}

	reporter, err := report.NewReporter(recorder, options...)
	if err != nil {
		obs.logger.Error(logMsgReportFailed, logAttrReport, "setup", logAttrError, err.Error())
		return
	}

	if cfg.Truncate {
		if truncErr := report.TruncateResultFile(cfg.ResultFile); truncErr != nil {
			obs.logger.Warn(logMsgTruncateFailed, logAttrError, truncErr.Error())
		}
	}

	if _, err = reporter.PrintLatencyDistribution(monotonic, cfg.Runs); err != nil {
		obs.logger.Error(logMsgReportFailed, logAttrReport, "latency_distribution", logAttrError, err.Error())
	}

	if _, err = reporter.WriteBenchmarkReport(ctx, report.BenchmarkRun{
		Title:     cfg.Title,
		Runs:      cfg.Runs,
		Monotonic: monotonic,
		CPU:       cpu,
	}); err != nil {
		obs.logger.Error(logMsgReportFailed, logAttrReport, "benchmark", logAttrError, err.Error())
	}

	if err = reporter.PrintAllProfileStats(ctx, cfg.ResultFile); err != nil {
		obs.logger.Error(logMsgReportFailed, logAttrReport, "profile_stats", logAttrError, err.Error())
	}

	if cfg.JSONSummary != "" {
		if err = writeJSONSummary(reporter, cfg, monotonic); err != nil {
			obs.logger.Error(logMsgReportFailed, logAttrReport, "json_summary", logAttrError, err.Error())
		}
	}
}

func writeJSONSummary(reporter *report.Reporter, cfg Config, monotonic *profiler.LatencySamples) (err error) {
	file, err := os.Create(cfg.JSONSummary)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	return reporter.WriteJSONSummary(file, monotonic, cfg.Runs)
}
