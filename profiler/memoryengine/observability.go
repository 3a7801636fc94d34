package memoryengine

import (
	"maps"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// logAppended logs an appended record at debug level if the logger is configured.
func (r *Recorder) logAppended(id profiler.RecordID, record profiler.EventRecord) {
	if r.logger != nil {
		r.logger.Debug(
			logMsgRecordAppended,
			logAttrRecordID, id,
			logAttrName, record.Name,
			logAttrOrigin, record.Origin,
			logAttrDurationNS, record.DurationNS,
		)
	}
}

// logRejected logs a rejected record at warn level if the logger is configured.
func (r *Recorder) logRejected(message string, err error, name string, origin string, args ...any) {
	if r.logger != nil {
		allArgs := []any{logAttrError, err.Error(), logAttrName, name, logAttrOrigin, origin}
		allArgs = append(allArgs, args...)
		r.logger.Warn(message, allArgs...)
	}
}

// logClockAnomaly logs a record with end before start at warn level if the logger is configured.
func (r *Recorder) logClockAnomaly(record profiler.EventRecord) {
	if r.logger != nil {
		r.logger.Warn(
			logMsgClockAnomaly,
			logAttrName, record.Name,
			logAttrStartNS, record.StartNS,
			logAttrEndNS, record.EndNS,
		)
	}
}

// incrementCounter increments a counter if the metrics collector is configured.
func (r *Recorder) incrementCounter(metric string, reason string) {
	if r.metricsCollector == nil {
		return
	}

	if reason == "" {
		r.metricsCollector.IncrementCounter(metric, r.storeLabels)
		return
	}

	labels := maps.Clone(r.storeLabels)
	labels[labelReason] = reason
	r.metricsCollector.IncrementCounter(metric, labels)
}
