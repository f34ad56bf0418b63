// Package metrics counts choice lifecycle events on a private Prometheus
// registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "choicecore"

// Recorder holds the counters. It is safe for concurrent use, so forks of
// one simulation may share a Recorder.
type Recorder struct {
	registry     *prometheus.Registry
	prepared     *prometheus.CounterVec
	materialized prometheus.Counter
	failures     prometheus.Counter
	picks        *prometheus.CounterVec
	completed    prometheus.Counter
	forks        prometheus.Counter
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		prepared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_prepared_total",
			Help:      "Choices whose candidates were drawn and materialized.",
		}, []string{"action"}),
		materialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_materialized_total",
			Help:      "Candidate entities created in setaside zones.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "materialize_failures_total",
			Help:      "Prepares that failed to materialize a candidate.",
		}),
		picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_total",
			Help:      "Picks recorded by controllers.",
		}, []string{"action"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chains_completed_total",
			Help:      "Choice chains resolved to their last node.",
		}),
		forks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forks_total",
			Help:      "Simulations forked with their pending choices.",
		}),
	}
	r.registry.MustRegister(r.prepared, r.materialized, r.failures, r.picks, r.completed, r.forks)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Prepared(action string, candidates int) {
	if r == nil {
		return
	}
	r.prepared.WithLabelValues(action).Inc()
	r.materialized.Add(float64(candidates))
}

func (r *Recorder) MaterializeFailed() {
	if r == nil {
		return
	}
	r.failures.Inc()
}

func (r *Recorder) Picked(action string) {
	if r == nil {
		return
	}
	r.picks.WithLabelValues(action).Inc()
}

func (r *Recorder) Completed() {
	if r == nil {
		return
	}
	r.completed.Inc()
}

func (r *Recorder) Forked() {
	if r == nil {
		return
	}
	r.forks.Inc()
}

// Sample is one gathered counter value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Gather returns every counter value, sorted by name.
func (r *Recorder) Gather() ([]Sample, error) {
	if r == nil {
		return nil, nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels(m),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labels(m *dto.Metric) map[string]string {
	if len(m.GetLabel()) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}
