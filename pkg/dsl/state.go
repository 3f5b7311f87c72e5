package dsl

import (
	"fmt"

	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// StateBuilder provides a fluent API for configuring one state.
type StateBuilder struct {
	name        string
	description string
	validations []dto.RawValidation
	transitions []dto.RawTransition
	builder     *Builder
}

// Describe sets the state description.
func (s *StateBuilder) Describe(text string) *StateBuilder {
	s.description = text
	return s
}

// Check adds a named validation backed by a registry routine. The check runs
// every time a path enters this state.
func (s *StateBuilder) Check(name, routine string) *StateBuilder {
	s.validations = append(s.validations, dto.RawValidation{
		Name:    name,
		Routine: routine,
	})
	return s
}

// On adds an outbound transition fired by the trigger. The transition has no
// side effect until Using names a routine for it.
func (s *StateBuilder) On(trigger, destination string) *StateBuilder {
	s.transitions = append(s.transitions, dto.RawTransition{
		TriggerName: trigger,
		Destination: destination,
	})
	return s
}

// Using sets the state-change routine of the most recently added transition.
func (s *StateBuilder) Using(routine string) *StateBuilder {
	if len(s.transitions) == 0 {
		s.builder.fail("state %q: Using(%q) called before any transition", s.name, routine)
		return s
	}
	s.transitions[len(s.transitions)-1].ChangeState = routine
	return s
}

func (s *StateBuilder) raw() dto.RawState {
	return dto.RawState{
		Description: s.description,
		Validations: s.validations,
		Transitions: s.transitions,
	}
}

// MultiTriggerBuilder configures one multi-trigger entry.
type MultiTriggerBuilder struct {
	trigger     string
	description string
	destination string
	routine     string
	sources     []string
	all         bool
}

// Describe sets the multi-trigger description.
func (m *MultiTriggerBuilder) Describe(text string) *MultiTriggerBuilder {
	m.description = text
	return m
}

// Using sets the state-change routine fired with the trigger.
func (m *MultiTriggerBuilder) Using(routine string) *MultiTriggerBuilder {
	m.routine = routine
	return m
}

// From names the source states the trigger applies to.
func (m *MultiTriggerBuilder) From(states ...string) *MultiTriggerBuilder {
	m.sources = append(m.sources, states...)
	return m
}

// FromAny makes the trigger applicable from every declared state.
func (m *MultiTriggerBuilder) FromAny() *MultiTriggerBuilder {
	m.all = true
	return m
}

func (m *MultiTriggerBuilder) raw() (map[string]any, error) {
	var sources any
	switch {
	case m.all:
		sources = domain.WildcardStar
	case len(m.sources) > 0:
		sources = m.sources
	default:
		return nil, fmt.Errorf("multi-trigger %q: no source states, call From or FromAny", m.trigger)
	}

	entry := map[string]any{
		"trigger_name":      m.trigger,
		"destination_state": m.destination,
		"source_states":     sources,
	}
	if m.description != "" {
		entry["description"] = m.description
	}
	if m.routine != "" {
		entry["routine_to_change_state"] = m.routine
	}
	return entry, nil
}
