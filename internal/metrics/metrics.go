// Package metrics records operator activity behind a pluggable backend.
// The default backend discards everything, so processors can always call
// into it.
package metrics

import (
	"sync"
	"time"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names understood by backends.
const (
	BatchesTotal    = "granuleflow_batches_total"
	RowsTotal       = "granuleflow_rows_total"
	SkippedTotal    = "granuleflow_skipped_batches_total"
	RunsTotal       = "granuleflow_runs_total"
	RunDurationSecs = "granuleflow_run_duration_seconds"
)

// Directions for batch and row counters.
const (
	In  = "in"
	Out = "out"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveSummary(name string, value float64, labels Labels)
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)     {}
func (nopBackend) ObserveSummary(string, float64, Labels) {}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b and returns the previous backend. Passing nil
// restores the no-op backend.
func SetBackend(b Backend) Backend {
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	if b == nil {
		b = nopBackend{}
	}
	backend = b
	return prev
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// RecordBatch counts one batch of rows flowing in or out of a processor.
func RecordBatch(processor, direction string, rows int64) {
	b := current()
	lbls := Labels{"processor": processor, "direction": direction}
	b.IncCounter(BatchesTotal, 1, lbls)
	if rows > 0 {
		b.IncCounter(RowsTotal, float64(rows), lbls)
	}
}

// RecordSkipped counts a batch whose contribution was dropped.
func RecordSkipped(processor, reason string) {
	current().IncCounter(SkippedTotal, 1, Labels{"processor": processor, "reason": reason})
}

// RecordRun counts a finished processor run and its duration.
func RecordRun(processor string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"processor": processor, "status": status}
	b := current()
	b.IncCounter(RunsTotal, 1, lbls)
	b.ObserveSummary(RunDurationSecs, d.Seconds(), lbls)
}
