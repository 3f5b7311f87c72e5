package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepStart  EventType = "step_start"
	EventTransition EventType = "transition"
	EventValidation EventType = "validation"
	EventStepEnd    EventType = "step_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Model     string    `json:"model"`
}

// StepEvent marks the start or end of a path step.
type StepEvent struct {
	EventBase
	StepID  string `json:"step_id"`
	Trigger string `json:"trigger"`
	State   string `json:"state"`
	Passed  bool   `json:"passed,omitempty"`
}

// TransitionEvent records a transition routine call.
type TransitionEvent struct {
	EventBase
	StepID      string `json:"step_id"`
	Trigger     string `json:"trigger"`
	From        string `json:"from"`
	Destination string `json:"destination"`
	Routine     string `json:"routine,omitempty"`
	IsError     bool   `json:"is_error,omitempty"`
}

// ValidationEvent records a validation routine call and its outcome.
type ValidationEvent struct {
	EventBase
	StepID   string `json:"step_id"`
	State    string `json:"state"`
	Name     string `json:"name"`
	Routine  string `json:"routine"`
	Expected bool   `json:"expected"`
	Actual   bool   `json:"actual"`
	Passed   bool   `json:"passed"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped; hooks must not mutate engine state.
type LifecycleHooks struct {
	OnStepStart  func(context.Context, *StepEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnValidation func(context.Context, *ValidationEvent)
	OnStepEnd    func(context.Context, *StepEvent)
}

// MergeHooks combines hook sets into one. Each callback fires in the order
// the sets were given.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		out.OnStepStart = chainStepHook(out.OnStepStart, h.OnStepStart)
		out.OnStepEnd = chainStepHook(out.OnStepEnd, h.OnStepEnd)
		out.OnTransition = chainTransitionHook(out.OnTransition, h.OnTransition)
		out.OnValidation = chainValidationHook(out.OnValidation, h.OnValidation)
	}
	return out
}

func chainStepHook(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainTransitionHook(a, b func(context.Context, *TransitionEvent)) func(context.Context, *TransitionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TransitionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainValidationHook(a, b func(context.Context, *ValidationEvent)) func(context.Context, *ValidationEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ValidationEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
