package report

import (
	"errors"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

var ErrJSONSummaryFailed = errors.New("writing json summary failed")

var summaryJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonRecord struct {
	Name         string `json:"name"`
	Origin       string `json:"origin,omitempty"`
	Description  string `json:"description,omitempty"`
	StartNS      uint64 `json:"start_ns"`
	EndNS        uint64 `json:"end_ns"`
	DurationNS   uint64 `json:"duration_ns"`
	ClockAnomaly bool   `json:"clock_anomaly,omitempty"`
}

type jsonDistribution struct {
	Count  int    `json:"count"`
	Min    uint64 `json:"min_ns"`
	Q1     uint64 `json:"q1_ns"`
	Median uint64 `json:"median_ns"`
	Q3     uint64 `json:"q3_ns"`
	Max    uint64 `json:"max_ns"`
}

type jsonSummary struct {
	GeneratedAt time.Time         `json:"generated_at"`
	RecordCount int               `json:"record_count"`
	Records     []jsonRecord      `json:"records"`
	Latency     *jsonDistribution `json:"latency,omitempty"`
}

// WriteJSONSummary writes all records and, if samples is not nil, the distribution of the first count
// latency samples as one indented JSON document.
func (r *Reporter) WriteJSONSummary(w io.Writer, samples *profiler.LatencySamples, count int) error {
	records := r.source.AllRecords()

	summary := jsonSummary{
		GeneratedAt: r.now().UTC(),
		RecordCount: len(records),
		Records:     make([]jsonRecord, 0, len(records)),
	}

	for _, record := range records {
		summary.Records = append(summary.Records, jsonRecord{
			Name:         record.Name,
			Origin:       record.Origin,
			Description:  record.Description,
			StartNS:      record.StartNS,
			EndNS:        record.EndNS,
			DurationNS:   record.DurationNS,
			ClockAnomaly: record.ClockAnomaly(),
		})
	}

	if samples != nil {
		distribution, err := samples.Distribution(count)
		if err != nil {
			return err
		}

		summary.Latency = &jsonDistribution{
			Count:  distribution.Count,
			Min:    distribution.Min,
			Q1:     distribution.Q1,
			Median: distribution.Median,
			Q3:     distribution.Q3,
			Max:    distribution.Max,
		}
	}

	encoder := summaryJSON.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		r.logError(logMsgJSONSummaryFailed, err)
		return errors.Join(ErrJSONSummaryFailed, err)
	}

	return nil
}
