/*
Package observability provides Prometheus instrumentation for path runs.

Metrics implements the engine's lifecycle hooks, so counting happens inline
with execution and no second pass over reports is needed.
*/
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Metrics holds the run counters. Register it with a prometheus.Registerer
// and feed it events via Hooks and ObserveRun.
type Metrics struct {
	runs        *prometheus.CounterVec
	steps       *prometheus.CounterVec
	validations *prometheus.CounterVec
	badTriggers prometheus.Counter
	transErrors prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowrunner",
			Name:      "runs_total",
			Help:      "Path runs by result.",
		}, []string{"model", "result"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowrunner",
			Name:      "steps_total",
			Help:      "Executed path steps by result.",
		}, []string{"model", "result"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowrunner",
			Name:      "validations_total",
			Help:      "Validation routine outcomes against expectations.",
		}, []string{"model", "result"}),
		badTriggers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowrunner",
			Name:      "bad_triggers_total",
			Help:      "Steps whose trigger did not resolve from the current state.",
		}),
		transErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowrunner",
			Name:      "transition_errors_total",
			Help:      "Transition routines that returned an error.",
		}),
	}
	reg.MustRegister(m.runs, m.steps, m.validations, m.badTriggers, m.transErrors)
	return m
}

// Hooks returns lifecycle hooks that update the counters as the engine runs.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(e.Model, result(e.Passed)).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			if e.IsError {
				m.transErrors.Inc()
			}
		},
		OnValidation: func(_ context.Context, e *domain.ValidationEvent) {
			m.validations.WithLabelValues(e.Model, result(e.Passed)).Inc()
		},
	}
}

// ObserveRun records a completed run's aggregate outcome.
func (m *Metrics) ObserveRun(report *domain.ResultReport) {
	m.runs.WithLabelValues(report.Model, result(report.Passed)).Inc()
	for _, s := range report.Steps {
		if s.BadTrigger {
			m.badTriggers.Inc()
		}
	}
}

func result(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
