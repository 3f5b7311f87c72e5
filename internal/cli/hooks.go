package cli

import (
	"context"
	"log/slog"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Step Start", "step_id", e.StepID, "trigger", e.Trigger, "state", e.State)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			if e.IsError {
				logger.Debug("Transition (Error)", "step_id", e.StepID, "from", e.From, "destination", e.Destination, "routine", e.Routine)
			} else {
				logger.Debug("Transition", "step_id", e.StepID, "from", e.From, "destination", e.Destination)
			}
		},
		OnValidation: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.Debug("Validation", "step_id", e.StepID, "name", e.Name, "expected", e.Expected, "actual", e.Actual, "passed", e.Passed)
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Step End", "step_id", e.StepID, "passed", e.Passed)
		},
	}
}

// StubRegistry registers a no-op stand-in for every routine the model
// names: transitions succeed, validations return true. Useful for checking
// model and path structure before real routines exist.
func StubRegistry(model *domain.Model) *registry.Registry {
	reg := registry.New()
	transitions, validations := model.Routines()
	for _, name := range transitions {
		reg.RegisterTransition(name, func(ctx context.Context, data map[string]any) error {
			return nil
		})
	}
	for _, name := range validations {
		reg.RegisterValidation(name, func(ctx context.Context) (bool, error) {
			return true, nil
		})
	}
	return reg
}
