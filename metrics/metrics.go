// Package metrics exports search progress to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
)

const namespace = "attrsel"

// Observer implements annealing.Observer with Prometheus collectors.
// It is safe for concurrent use.
type Observer struct {
	steps      prometheus.Counter
	accepted   *prometheus.CounterVec
	iterations prometheus.Counter
	improved   prometheus.Counter
	walkSteps  prometheus.Histogram
	bestMerit  prometheus.Gauge
	lastMerit  prometheus.Gauge
}

var _ annealing.Observer = (*Observer)(nil)

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Annealing steps taken, one subset evaluation each",
		}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepted_moves_total",
			Help:      "Accepted moves by the rule that accepted them",
		}, []string{"trigger"}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Completed restarts",
		}),
		improved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_improvements_total",
			Help:      "Restarts that replaced the global best subset",
		}),
		walkSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_steps",
			Help:      "Steps per restart until convergence",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
		}),
		bestMerit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_merit",
			Help:      "Merit of the best subset of the current search",
		}),
		lastMerit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "iteration_merit",
			Help:      "Merit reached by the most recent restart",
		}),
	}

	if reg != nil {
		for _, c := range o.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

func (o *Observer) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		o.steps, o.accepted, o.iterations, o.improved,
		o.walkSteps, o.bestMerit, o.lastMerit,
	}
}

// OnStep implements annealing.Observer.
func (o *Observer) OnStep(e annealing.StepEvent) {
	o.steps.Inc()
	if e.Accepted {
		o.accepted.WithLabelValues(string(e.Trigger)).Inc()
	}
}

// OnIteration implements annealing.Observer.
func (o *Observer) OnIteration(e annealing.IterationEvent) {
	o.iterations.Inc()
	o.walkSteps.Observe(float64(e.Result.Steps))
	o.lastMerit.Set(e.Result.Merit)
	o.bestMerit.Set(e.BestMerit)
	if e.Improved {
		o.improved.Inc()
	}
}
