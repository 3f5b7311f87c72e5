// Package registry maps routine names from machine definitions to Go
// callbacks supplied by the host. The engine never reflects into the host's
// object model; it only invokes named entries registered here.
package registry

import (
	"context"
	"sync"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// TransitionFunc performs the state change on the system-under-test.
// The data map is the step's payload, passed verbatim (never nil).
type TransitionFunc func(ctx context.Context, data map[string]any) error

// ValidationFunc checks one property of the system-under-test after a
// transition. It returns the observed boolean; an error marks the
// validation as failed regardless of expectation.
type ValidationFunc func(ctx context.Context) (bool, error)

// Registry manages the callbacks available to the engine. Routine names are
// opaque strings; dotted notation ("server.create") is conventional but not
// interpreted.
type Registry struct {
	mu          sync.RWMutex
	transitions map[string]TransitionFunc
	validations map[string]ValidationFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		transitions: make(map[string]TransitionFunc),
		validations: make(map[string]ValidationFunc),
	}
}

// RegisterTransition adds a transition routine. An existing name is
// overwritten.
func (r *Registry) RegisterTransition(name string, fn TransitionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[name] = fn
}

// RegisterValidation adds a validation routine. An existing name is
// overwritten.
func (r *Registry) RegisterValidation(name string, fn ValidationFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations[name] = fn
}

// Transition looks up a transition routine by name.
func (r *Registry) Transition(name string) (TransitionFunc, error) {
	r.mu.RLock()
	fn, ok := r.transitions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.RoutineNotFoundError{Routine: name, Kind: "transition"}
	}
	return fn, nil
}

// Validation looks up a validation routine by name.
func (r *Registry) Validation(name string) (ValidationFunc, error) {
	r.mu.RLock()
	fn, ok := r.validations[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.RoutineNotFoundError{Routine: name, Kind: "validation"}
	}
	return fn, nil
}

// Bind verifies that every routine the model references resolves in the
// registry. It returns the first missing routine as a RoutineNotFoundError,
// so misconfiguration surfaces before any step executes.
func (r *Registry) Bind(model *domain.Model) error {
	transitions, validations := model.Routines()
	for _, name := range transitions {
		if _, err := r.Transition(name); err != nil {
			return err
		}
	}
	for _, name := range validations {
		if _, err := r.Validation(name); err != nil {
			return err
		}
	}
	return nil
}
