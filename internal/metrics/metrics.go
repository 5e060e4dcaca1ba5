// Package metrics exposes Prometheus instrumentation for the scan pipeline
// and the requalification poller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for the engine.
type Registry struct {
	ScanCycles        prometheus.Counter
	ScanCycleDuration prometheus.Histogram
	TickersScored     prometheus.Counter
	TickersSkipped    prometheus.Counter
	Verdicts          *prometheus.CounterVec
	QuoteFailures     prometheus.Counter
}

// NewRegistry creates the metric set and registers it with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		ScanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squeezerun_scan_cycles_total",
			Help: "Total number of completed scan cycles",
		}),
		ScanCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squeezerun_scan_cycle_duration_seconds",
			Help:    "Duration of a full scan cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		TickersScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squeezerun_tickers_scored_total",
			Help: "Total tickers that produced a score breakdown",
		}),
		TickersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squeezerun_tickers_skipped_total",
			Help: "Total tickers skipped for failing normalization",
		}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squeezerun_requalify_verdicts_total",
			Help: "Requalification verdicts emitted, by outcome",
		}, []string{"verdict"}),
		QuoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squeezerun_quote_fetch_failures_total",
			Help: "Live quote fetches that failed and fell back to the prior verdict",
		}),
	}

	reg.MustRegister(
		r.ScanCycles,
		r.ScanCycleDuration,
		r.TickersScored,
		r.TickersSkipped,
		r.Verdicts,
		r.QuoteFailures,
	)
	return r
}

// ObserveVerdict records one requalification outcome.
func (r *Registry) ObserveVerdict(valid bool) {
	if valid {
		r.Verdicts.WithLabelValues("valid").Inc()
	} else {
		r.Verdicts.WithLabelValues("disqualified").Inc()
	}
}
