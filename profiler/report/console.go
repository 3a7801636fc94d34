package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

const anomalyClockWraparound = "clock_wraparound"

// PrintSummary writes one line per record to the console in log order:
//
//	SendMessage, Start:150 ns, End:400 ns, Duration:250 ns, Description:serialize, Origin:client_unary_call.go,
//
// Records whose end lies before their start get an extra "Anomaly:clock_wraparound," field.
func (r *Reporter) PrintSummary() error {
	records := r.source.AllRecords()

	if err := writeConsole(r.console, func(w io.Writer) error {
		for _, record := range records {
			if err := writeSummaryLine(w, record); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		r.logError(logMsgConsoleWriteFailed, err)
		return err
	}

	if anomalies := countClockAnomalies(records); anomalies > 0 {
		r.logWarn(logMsgClockAnomalies, logAttrAnomalyCount, anomalies, logAttrRecordCount, len(records))
	}

	return nil
}

func writeSummaryLine(w io.Writer, record profiler.EventRecord) error {
	_, err := fmt.Fprintf(
		w,
		"%s, Start:%d ns, End:%d ns, Duration:%d ns, Description:%s, Origin:%s,",
		record.Name,
		record.StartNS,
		record.EndNS,
		record.DurationNS,
		record.Description,
		record.Origin,
	)
	if err != nil {
		return err
	}

	if record.ClockAnomaly() {
		if _, err = fmt.Fprintf(w, " Anomaly:%s,", anomalyClockWraparound); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w)

	return err
}

// writeConsole buffers everything render writes and flushes it to console once.
func writeConsole(console io.Writer, render func(w io.Writer) error) error {
	buffered := bufio.NewWriter(console)

	if err := render(buffered); err != nil {
		return errors.Join(ErrConsoleWriteFailed, err)
	}

	if err := buffered.Flush(); err != nil {
		return errors.Join(ErrConsoleWriteFailed, err)
	}

	return nil
}

func countClockAnomalies(records profiler.EventRecords) int {
	count := 0
	for _, record := range records {
		if record.ClockAnomaly() {
			count++
		}
	}

	return count
}
