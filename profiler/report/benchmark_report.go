package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	benchmarkTimeLayout   = "2006-01-02-15-04-05"
	benchmarkColumnHeader = "Experiment Run, ,CLOCK_MONOTONIC, Unit,CLOCK_PROCESS_CPUTIME_ID, Unit,"
)

// BenchmarkRun holds the inputs of one benchmark report.
type BenchmarkRun struct {
	Title     string
	Runs      int
	Monotonic *profiler.LatencySamples
	CPU       *profiler.LatencySamples

	// Notes are optional per-run lines, Notes[i] is written after the row of run i.
	Notes []string
}

// BenchmarkSummary is the result of WriteBenchmarkReport.
type BenchmarkSummary struct {
	Path      string
	Monotonic profiler.Distribution
	CPU       profiler.Distribution
}

// WriteBenchmarkReport writes "<YYYY-MM-DD-HH-MM-SS>_Benchmark_<title>.csv" into the report directory
// and mirrors its content on the console. The file holds a header block, one row per run with the
// monotonic and CPU latency, the sorted rows and the Min, Q1, Median, Q3 and Max rows of both columns.
//
// Both sample buffers keep their run order, sorting happens on copies.
// If the file cannot be written the console report is still produced and the error is returned.
func (r *Reporter) WriteBenchmarkReport(ctx context.Context, run BenchmarkRun) (BenchmarkSummary, error) {
	if run.Title == "" {
		return BenchmarkSummary{}, ErrEmptyReportTitle
	}

	if run.Monotonic == nil || run.CPU == nil {
		return BenchmarkSummary{}, ErrNilSamples
	}

	monotonicValues, err := run.Monotonic.Values(run.Runs)
	if err != nil {
		return BenchmarkSummary{}, err
	}

	cpuValues, err := run.CPU.Values(run.Runs)
	if err != nil {
		return BenchmarkSummary{}, err
	}

	summary := BenchmarkSummary{}
	if summary.Monotonic, err = profiler.ComputeDistribution(monotonicValues); err != nil {
		return BenchmarkSummary{}, err
	}

	if summary.CPU, err = profiler.ComputeDistribution(cpuValues); err != nil {
		return BenchmarkSummary{}, err
	}

	timestamp := r.now().Format(benchmarkTimeLayout)
	fileName := fmt.Sprintf("%s_Benchmark_%s.csv", timestamp, run.Title)
	summary.Path = filepath.Join(r.reportDir, fileName)

	ctx, span := r.startExportSpan(ctx, operationWriteBenchmarkReport, summary.Path, run.Runs)
	start := time.Now()

	content := benchmarkContent{
		run:       run,
		fileName:  fileName,
		timestamp: timestamp,
		monotonic: monotonicValues,
		cpu:       cpuValues,
		summary:   summary,
	}

	fileErr := writeBenchmarkFile(summary.Path, content)
	consoleErr := writeConsole(r.console, content.writeConsole)
	duration := time.Since(start)

	if fileErr != nil {
		r.logErrorContext(ctx, logMsgBenchmarkReportFailed, fileErr, logAttrPath, summary.Path)
		r.recordErrorMetrics(ctx, operationWriteBenchmarkReport)
		r.recordDurationMetrics(ctx, operationWriteBenchmarkReport, statusError, duration)
		r.finishSpanError(span, errorTypeFileWrite)

		return summary, errors.Join(fileErr, consoleErr)
	}

	r.logOperationContext(
		ctx,
		logMsgBenchmarkReportWritten,
		logAttrPath, summary.Path,
		logAttrRunCount, run.Runs,
		logAttrDurationMS, toMilliseconds(duration),
	)
	r.recordDurationMetrics(ctx, operationWriteBenchmarkReport, statusSuccess, duration)
	r.finishSpanSuccess(span, run.Runs, duration)

	return summary, consoleErr
}

type benchmarkContent struct {
	run       BenchmarkRun
	fileName  string
	timestamp string
	monotonic []profiler.Nanoseconds
	cpu       []profiler.Nanoseconds
	summary   BenchmarkSummary
}

func writeBenchmarkFile(path string, content benchmarkContent) (err error) {
	file, createErr := os.Create(path) //nolint:gosec
	if createErr != nil {
		return errors.Join(ErrExportFailed, createErr)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, ErrExportFailed, closeErr)
		}
	}()

	buffered := bufio.NewWriter(file)
	if writeErr := content.writeFile(buffered); writeErr != nil {
		return errors.Join(ErrExportFailed, writeErr)
	}

	if flushErr := buffered.Flush(); flushErr != nil {
		return errors.Join(ErrExportFailed, flushErr)
	}

	return nil
}

func (c benchmarkContent) writeHeader(w io.Writer) error {
	_, err := fmt.Fprintf(
		w,
		"Benchmark Name,%s,\nFilename,%s,\nTime,%s,\n\n\n%s\n",
		c.run.Title,
		c.fileName,
		c.timestamp,
		benchmarkColumnHeader,
	)

	return err
}

func (c benchmarkContent) writeQuartiles(w io.Writer) error {
	m, p := c.summary.Monotonic, c.summary.CPU

	_, err := fmt.Fprintf(
		w,
		"\n\n\nMin,%d,%d,\nQ1,%d,%d,\nMedian,%d,%d,\nQ3,%d,%d,\nMax,%d,%d,\n",
		m.Min, p.Min,
		m.Q1, p.Q1,
		m.Median, p.Median,
		m.Q3, p.Q3,
		m.Max, p.Max,
	)

	return err
}

func (c benchmarkContent) note(run int) string {
	if run < len(c.run.Notes) {
		return c.run.Notes[run]
	}

	return ""
}

func (c benchmarkContent) writeFile(w io.Writer) error {
	if err := c.writeHeader(w); err != nil {
		return err
	}

	for run := range c.monotonic {
		if _, err := fmt.Fprintf(w, "%d,%d,%d,\n%s", run, c.monotonic[run], c.cpu[run], c.note(run)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n\n\n\n%s\n%s\n", sortedResultHeader, benchmarkColumnHeader); err != nil {
		return err
	}

	sortedMonotonic, sortedCPU := c.summary.Monotonic.SortedValues(), c.summary.CPU.SortedValues()
	for rank := range sortedMonotonic {
		if _, err := fmt.Fprintf(w, "%d Sorted,%d,%d,\n", rank, sortedMonotonic[rank], sortedCPU[rank]); err != nil {
			return err
		}
	}

	return c.writeQuartiles(w)
}

func (c benchmarkContent) writeConsole(w io.Writer) error {
	if err := c.writeHeader(w); err != nil {
		return err
	}

	for run := range c.monotonic {
		if _, err := fmt.Fprintf(
			w,
			"%03d Actual) %s, (Elapsed time, Elapsed process CPU time) = (,%d, nanoseconds,%d, nanoseconds)\n%s",
			run, c.run.Title, c.monotonic[run], c.cpu[run], c.note(run),
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n\n\n\n%s\n%s\n", sortedResultHeader, benchmarkColumnHeader); err != nil {
		return err
	}

	sortedMonotonic, sortedCPU := c.summary.Monotonic.SortedValues(), c.summary.CPU.SortedValues()
	for rank := range sortedMonotonic {
		if _, err := fmt.Fprintf(
			w,
			"%03d Sorted) %s, (Elapsed time, Elapsed process CPU time) = (,%d, nanoseconds,%d, nanoseconds)\n",
			rank, c.run.Title, sortedMonotonic[rank], sortedCPU[rank],
		); err != nil {
			return err
		}
	}

	return c.writeQuartiles(w)
}
