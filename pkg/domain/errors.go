package domain

import (
	"errors"
	"fmt"
)

// ErrReportNotFound is returned when a report ID cannot be found in a store.
var ErrReportNotFound = errors.New("report not found")

// DefinitionError is a structural error in a machine definition, raised at
// build time. A model carrying one is never constructed.
type DefinitionError struct {
	Model  string
	Detail string
}

func (e *DefinitionError) Error() string {
	if e.Model == "" {
		return "invalid machine definition: " + e.Detail
	}
	return fmt.Sprintf("invalid machine definition %q: %s", e.Model, e.Detail)
}

// ResolutionError is raised while flattening a path inheritance chain.
// It is fatal to the path being resolved and leaves other paths untouched.
type ResolutionError struct {
	Ref    PathRef
	Detail string
}

func (e *ResolutionError) Error() string {
	if e.Ref == (PathRef{}) {
		return "path resolution failed: " + e.Detail
	}
	return fmt.Sprintf("path resolution failed for %s: %s", e.Ref, e.Detail)
}

// UnknownTriggerError reports a trigger that does not resolve from the
// current state. At run time this is a flow error: the step is recorded as
// failed and the run continues from the unchanged state.
type UnknownTriggerError struct {
	State   string
	Trigger string
}

func (e *UnknownTriggerError) Error() string {
	return fmt.Sprintf("trigger %q is not valid from state %q", e.Trigger, e.State)
}

// RoutineNotFoundError reports a routine name the callback registry cannot
// resolve. It is a configuration error, raised before any step executes.
type RoutineNotFoundError struct {
	Routine string
	Kind    string // "transition" or "validation"
}

func (e *RoutineNotFoundError) Error() string {
	return fmt.Sprintf("%s routine %q is not registered", e.Kind, e.Routine)
}
