package metrics

import (
	"time"

	"github.com/jaxxstorm/netdiag/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "netdiag"

type Probes struct {
	ProbesTotal          *prometheus.CounterVec
	ProbeDurationSeconds *prometheus.HistogramVec
	ReportsTotal         *prometheus.CounterVec
}

// New registers the collectors on reg. Registering twice on the same
// registry panics.
func New(reg prometheus.Registerer) *Probes {
	factory := promauto.With(reg)
	return &Probes{
		ProbesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_total",
				Help:      "Total diagnostic probes by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ProbeDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_duration_seconds",
				Help:      "Diagnostic probe duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		ReportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total diagnostic reports by classification",
			},
			[]string{"classification"},
		),
	}
}

func (p *Probes) ObserveProbe(kind model.ProbeKind, outcome model.Outcome, d time.Duration) {
	p.ProbesTotal.WithLabelValues(string(kind), string(outcome)).Inc()
	p.ProbeDurationSeconds.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (p *Probes) ObserveReport(report model.DiagnosticReport) {
	p.ReportsTotal.WithLabelValues(report.Summary.Classification).Inc()
}
