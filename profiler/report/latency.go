package report

import (
	"fmt"
	"io"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const (
	latencyHeader      = "Experiment Run, ,Latency, Unit,"
	sortedResultHeader = "SORTED Result"
)

// PrintLatencyDistribution writes the first count samples to the console, first in run order,
// then sorted ascending, and finally the Min, Q1, Median, Q3 and Max rows.
//
// The samples buffer is not modified. The computed Distribution is returned for further use.
func (r *Reporter) PrintLatencyDistribution(samples *profiler.LatencySamples, count int) (profiler.Distribution, error) {
	if samples == nil {
		return profiler.Distribution{}, ErrNilSamples
	}

	values, valuesErr := samples.Values(count)
	if valuesErr != nil {
		return profiler.Distribution{}, valuesErr
	}

	distribution, distributionErr := profiler.ComputeDistribution(values)
	if distributionErr != nil {
		return profiler.Distribution{}, distributionErr
	}

	if err := writeConsole(r.console, func(w io.Writer) error {
		return writeLatencyDistribution(w, values, distribution)
	}); err != nil {
		r.logError(logMsgConsoleWriteFailed, err)
		return distribution, err
	}

	return distribution, nil
}

func writeLatencyDistribution(w io.Writer, values []profiler.Nanoseconds, distribution profiler.Distribution) error {
	if _, err := fmt.Fprintln(w, latencyHeader); err != nil {
		return err
	}

	for run, value := range values {
		if _, err := fmt.Fprintf(w, "%03d Actual), ,%d, nanoseconds,\n", run, value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", sortedResultHeader, latencyHeader); err != nil {
		return err
	}

	for rank, sample := range distribution.Sorted {
		if _, err := fmt.Fprintf(w, "%03d Sorted), ,%d, nanoseconds, Run:%d,\n", rank, sample.Value, sample.Run); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(
		w,
		"\nMin,%d,\nQ1,%d,\nMedian,%d,\nQ3,%d,\nMax,%d,\n",
		distribution.Min,
		distribution.Q1,
		distribution.Median,
		distribution.Q3,
		distribution.Max,
	)

	return err
}
