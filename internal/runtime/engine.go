// Package runtime drives resolved path definitions against a validated
// machine model, invoking the host's transition and validation callbacks and
// collecting per-step results.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

// Engine replays paths against one model. It holds no state between runs:
// the current state of a run lives on the stack of Run, so independent runs
// may execute concurrently as long as they do not share a mutable
// system-under-test.
type Engine struct {
	model    *domain.Model
	registry *registry.Registry
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine binds a model to a callback registry. Every routine the model
// references must resolve in the registry; a missing routine is a
// configuration error reported here, before anything executes.
func NewEngine(model *domain.Model, reg *registry.Registry, opts ...EngineOption) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("engine requires a model")
	}
	if reg == nil {
		return nil, fmt.Errorf("engine requires a callback registry")
	}
	if err := reg.Bind(model); err != nil {
		return nil, fmt.Errorf("model %q: %w", model.Name, err)
	}

	e := &Engine{
		model:    model,
		registry: reg,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e, nil
}

// Model returns the engine's immutable model.
func (e *Engine) Model() *domain.Model {
	return e.model
}

// ValidatePath statically checks a path against the model: step ids must be
// unique and every trigger must be declared somewhere in the model. It does
// not execute anything and does not prove the path is walkable from the
// initial state.
func (e *Engine) ValidatePath(path *domain.PathDefinition) error {
	var errs []error
	seen := make(map[string]int)
	for i, step := range path.Steps {
		if step.ID == "" {
			errs = append(errs, fmt.Errorf("step %d (%s) has no id", i+1, step.Trigger))
			continue
		}
		if prev, dup := seen[step.ID]; dup {
			errs = append(errs, fmt.Errorf("step %d reuses id %q of step %d", i+1, step.ID, prev))
			continue
		}
		seen[step.ID] = i + 1
		if !e.model.HasTrigger(step.Trigger) {
			errs = append(errs, fmt.Errorf("step %q: trigger %q is not declared in model %q",
				step.ID, step.Trigger, e.model.Name))
		}
	}
	return errors.Join(errs...)
}

// Run walks the path from the model's initial state, firing each step's
// trigger, and returns the full report. A trigger that does not resolve from
// the current state is recorded as a failed step and the run continues from
// the unchanged state; only a statically invalid path or a cancelled context
// aborts the run.
func (e *Engine) Run(ctx context.Context, path *domain.PathDefinition) (*domain.ResultReport, error) {
	if err := e.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("path %s:%s: %w", path.Suite, path.Case, err)
	}

	report := &domain.ResultReport{
		Model:       e.model.Name,
		Suite:       path.Suite,
		Case:        path.Case,
		Description: path.Description,
		Passed:      true,
	}

	current := e.model.InitialState
	report.Trail = append(report.Trail, current)

	for _, step := range path.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run aborted at step %q: %w", step.ID, err)
		}

		e.fireStepStart(ctx, step, current)
		result := e.executeStep(ctx, step, current)
		e.fireStepEnd(ctx, step, result)

		current = result.Destination
		report.Trail = append(report.Trail, current)
		report.Steps = append(report.Steps, result)
		report.Passed = report.Passed && result.Passed
	}

	report.FinalState = current
	e.logger.Info("path traversal complete",
		"model", e.model.Name,
		"suite", path.Suite,
		"case", path.Case,
		"final_state", current,
		"passed", report.Passed)
	return report, nil
}

// executeStep fires one trigger and validates the resulting state.
func (e *Engine) executeStep(ctx context.Context, step domain.Step, current string) domain.StepResult {
	result := domain.StepResult{
		StepID:      step.ID,
		Trigger:     step.Trigger,
		From:        current,
		Destination: current,
		Passed:      true,
	}

	resolved, err := Resolve(e.model, current, step.Trigger)
	if err != nil {
		// Flow error: record and stay put so the rest of the path still
		// produces a report.
		e.logger.Error("trigger not valid from current state",
			"trigger", step.Trigger, "state", current, "step", step.ID)
		result.BadTrigger = true
		result.Passed = false
		return result
	}

	result.Destination = resolved.Destination

	data := step.Data
	if data == nil {
		data = map[string]any{}
	}
	if terr := e.invokeTransition(ctx, resolved, data); terr != nil {
		// The routine may have partially mutated the system-under-test, so
		// the engine still advances and lets the destination validations
		// surface the damage.
		e.logger.Warn("transition routine failed",
			"routine", resolved.Routine, "trigger", step.Trigger, "err", terr)
		result.TransitionError = terr.Error()
		result.Passed = false
	}
	e.fireTransition(ctx, step, current, resolved, result.TransitionError != "")

	dest := e.model.State(resolved.Destination)
	for _, v := range dest.Validations {
		vr := e.runValidation(ctx, step, v)
		e.fireValidation(ctx, step, resolved.Destination, vr)
		result.Validations = append(result.Validations, vr)
		result.Passed = result.Passed && vr.Passed
	}

	return result
}

func (e *Engine) invokeTransition(ctx context.Context, resolved ResolvedTransition, data map[string]any) error {
	if resolved.Routine == "" || resolved.Routine == "None" {
		return nil
	}
	fn, err := e.registry.Transition(resolved.Routine)
	if err != nil {
		// Bind ran at construction, so this only happens if the registry
		// was mutated afterwards.
		return err
	}
	return fn(ctx, data)
}

func (e *Engine) runValidation(ctx context.Context, step domain.Step, v domain.Validation) domain.ValidationResult {
	vr := domain.ValidationResult{
		Name:     v.Name,
		Routine:  v.Routine,
		Expected: step.Expectation(v.Name),
	}

	fn, err := e.registry.Validation(v.Routine)
	if err != nil {
		vr.Error = err.Error()
		return vr
	}

	actual, err := fn(ctx)
	if err != nil {
		e.logger.Warn("validation routine failed",
			"validation", v.Name, "routine", v.Routine, "err", err)
		vr.Error = err.Error()
		return vr
	}

	vr.Actual = actual
	vr.Passed = actual == vr.Expected
	return vr
}

func (e *Engine) fireStepStart(ctx context.Context, step domain.Step, state string) {
	if e.hooks.OnStepStart == nil {
		return
	}
	e.hooks.OnStepStart(ctx, &domain.StepEvent{
		EventBase: e.eventBase(domain.EventStepStart),
		StepID:    step.ID,
		Trigger:   step.Trigger,
		State:     state,
	})
}

func (e *Engine) fireStepEnd(ctx context.Context, step domain.Step, result domain.StepResult) {
	if e.hooks.OnStepEnd == nil {
		return
	}
	e.hooks.OnStepEnd(ctx, &domain.StepEvent{
		EventBase: e.eventBase(domain.EventStepEnd),
		StepID:    step.ID,
		Trigger:   step.Trigger,
		State:     result.Destination,
		Passed:    result.Passed,
	})
}

func (e *Engine) fireTransition(ctx context.Context, step domain.Step, from string, resolved ResolvedTransition, failed bool) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase:   e.eventBase(domain.EventTransition),
		StepID:      step.ID,
		Trigger:     resolved.Trigger,
		From:        from,
		Destination: resolved.Destination,
		Routine:     resolved.Routine,
		IsError:     failed,
	})
}

func (e *Engine) fireValidation(ctx context.Context, step domain.Step, state string, vr domain.ValidationResult) {
	if e.hooks.OnValidation == nil {
		return
	}
	e.hooks.OnValidation(ctx, &domain.ValidationEvent{
		EventBase: e.eventBase(domain.EventValidation),
		StepID:    step.ID,
		State:     state,
		Name:      vr.Name,
		Routine:   vr.Routine,
		Expected:  vr.Expected,
		Actual:    vr.Actual,
		Passed:    vr.Passed,
	})
}

func (e *Engine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Model:     e.model.Name,
	}
}
