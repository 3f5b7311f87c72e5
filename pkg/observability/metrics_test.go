package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

func TestMetrics_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	base := domain.EventBase{Model: "ORDER"}

	hooks.OnStepEnd(ctx, &domain.StepEvent{EventBase: base, Passed: true})
	hooks.OnStepEnd(ctx, &domain.StepEvent{EventBase: base, Passed: false})
	hooks.OnValidation(ctx, &domain.ValidationEvent{EventBase: base, Passed: true})
	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base, IsError: true})
	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base})

	m.ObserveRun(&domain.ResultReport{
		Model:  "ORDER",
		Passed: false,
		Steps:  []domain.StepResult{{BadTrigger: true}, {Passed: true}},
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.steps.WithLabelValues("ORDER", "pass")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.steps.WithLabelValues("ORDER", "fail")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.validations.WithLabelValues("ORDER", "pass")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("ORDER", "fail")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.badTriggers))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transErrors))
}
