package runtime

import (
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// ResolvedTransition is the outcome of resolving a trigger from a state.
type ResolvedTransition struct {
	Trigger     string
	Destination string
	Routine     string
	// Multi is set when the match came from a multi-trigger rather than a
	// state-level transition.
	Multi bool
}

// Resolve finds the single transition applicable for the trigger from the
// current state. State-level transitions are searched first; a multi-trigger
// only matches when no state-level transition claims the name, so an explicit
// per-state definition always overrides a global one. Resolution is pure and
// deterministic: it never mutates the model.
func Resolve(model *domain.Model, current, trigger string) (ResolvedTransition, error) {
	state := model.State(current)
	if state == nil {
		return ResolvedTransition{}, &domain.UnknownTriggerError{State: current, Trigger: trigger}
	}

	if t, ok := state.TransitionFor(trigger); ok {
		return ResolvedTransition{
			Trigger:     t.Trigger,
			Destination: t.Destination,
			Routine:     t.Routine,
		}, nil
	}

	for _, mt := range model.MultiTriggers {
		if mt.Trigger == trigger && mt.Sources.Contains(current) {
			return ResolvedTransition{
				Trigger:     mt.Trigger,
				Destination: mt.Destination,
				Routine:     mt.Routine,
				Multi:       true,
			}, nil
		}
	}

	return ResolvedTransition{}, &domain.UnknownTriggerError{State: current, Trigger: trigger}
}
