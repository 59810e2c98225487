package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Backend that keeps collectors in its own registry.
type Prometheus struct {
	reg *prometheus.Registry

	batches *prometheus.CounterVec
	rows    *prometheus.CounterVec
	skipped *prometheus.CounterVec
	runs    *prometheus.CounterVec
	runTime *prometheus.SummaryVec
}

// NewPrometheus registers the granuleflow collectors in a fresh registry.
func NewPrometheus() (*Prometheus, error) {
	p := &Prometheus{reg: prometheus.NewRegistry()}
	p.batches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: BatchesTotal,
		Help: "Batches received or emitted, partitioned by processor and direction.",
	}, []string{"processor", "direction"})
	p.rows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: RowsTotal,
		Help: "Rows received or emitted, partitioned by processor and direction.",
	}, []string{"processor", "direction"})
	p.skipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: SkippedTotal,
		Help: "Batches whose contribution was dropped, partitioned by processor and reason.",
	}, []string{"processor", "reason"})
	p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: RunsTotal,
		Help: "Finished processor runs, partitioned by processor and status.",
	}, []string{"processor", "status"})
	p.runTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       RunDurationSecs,
		Help:       "Processor run duration in seconds.",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"processor", "status"})

	for _, c := range []prometheus.Collector{p.batches, p.rows, p.skipped, p.runs, p.runTime} {
		if err := p.reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return p, nil
}

// Registry exposes the underlying registry for scraping or gathering.
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

func (p *Prometheus) IncCounter(name string, delta float64, labels Labels) {
	switch name {
	case BatchesTotal:
		p.batches.WithLabelValues(labels["processor"], labels["direction"]).Add(delta)
	case RowsTotal:
		p.rows.WithLabelValues(labels["processor"], labels["direction"]).Add(delta)
	case SkippedTotal:
		p.skipped.WithLabelValues(labels["processor"], labels["reason"]).Add(delta)
	case RunsTotal:
		p.runs.WithLabelValues(labels["processor"], labels["status"]).Add(delta)
	}
}

func (p *Prometheus) ObserveSummary(name string, value float64, labels Labels) {
	if name != RunDurationSecs {
		return
	}
	p.runTime.WithLabelValues(labels["processor"], labels["status"]).Observe(value)
}
