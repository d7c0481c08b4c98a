// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the pipeline.
//
// It exposes a narrow interface (Backend) for counters and timing data, with
// a global pluggable backend defaulting to a no-op implementation, so metric
// calls are always safe even when nothing is configured. The design mirrors
// the storage abstraction: the pipeline depends only on this package while
// concrete systems (Prometheus Pushgateway) live in subpackages.
package metrics

import (
	"time"

	"fleximart/internal/quality"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics stay optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage measures one pipeline stage: latency plus success/failure.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter("etl_stage_total", 1, lbls)
	backend.ObserveDuration("etl_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordCounts publishes one table's final quality counters.
func RecordCounts(job, table string, c quality.Counts) {
	record := func(kind string, v int64) {
		if v <= 0 {
			return
		}
		backend.IncCounter("etl_records_total", float64(v), Labels{
			"job":   job,
			"table": table,
			"kind":  kind,
		})
	}
	record("read", c.RecordsRead)
	record("duplicates_removed", c.DuplicatesRemoved)
	record("missing_values_handled", c.MissingValuesHandled)
	record("loaded", c.RecordsLoaded)
}
