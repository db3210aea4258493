package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus instruments for the advisor pipeline.
type Metrics struct {
	Registry *prometheus.Registry

	AdjudicationsTotal *prometheus.CounterVec
	ConflictsTotal     prometheus.Counter
	PolicyReloadsTotal prometheus.Counter
	PipelineDuration   prometheus.Histogram
}

// New creates and registers all advisor metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		AdjudicationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_adjudications_total",
			Help: "Adjudication pipeline runs by detected regime.",
		}, []string{"regime"}),
		ConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_conflicts_total",
			Help: "Adjudications where opposing expert opinions were detected.",
		}),
		PolicyReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_policy_reloads_total",
			Help: "Policy snapshot swaps triggered by a content hash change.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_pipeline_duration_seconds",
			Help:    "Wall time of a full adjudication pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.AdjudicationsTotal,
		m.ConflictsTotal,
		m.PolicyReloadsTotal,
		m.PipelineDuration,
	)

	return m
}
