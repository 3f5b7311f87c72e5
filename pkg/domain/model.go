package domain

import "strings"

// ReservedPrefix marks definition entries that are directives, not states.
// State names must never start with it.
const ReservedPrefix = "__"

// Wildcard tokens accepted for a multi-trigger's source_states field.
const (
	WildcardStar  = "*"
	WildcardEqual = "="
)

// Validation is a named boolean check run against the system-under-test
// after entering a state. Routine names a callback in the registry.
type Validation struct {
	Name    string `json:"name" yaml:"name"`
	Routine string `json:"routine" yaml:"routine"`
}

// Transition is an outbound edge of a state, keyed by trigger name.
type Transition struct {
	Trigger     string `json:"trigger_name" yaml:"trigger_name"`
	Destination string `json:"destination_state" yaml:"destination_state"`
	// Routine names the registry callback that performs the state change.
	// Empty (or the literal "None") means the transition has no side effect.
	Routine string `json:"routine_to_change_state" yaml:"routine_to_change_state"`
}

// State is one node of the machine. A state with no transitions is terminal.
type State struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Validations []Validation `json:"validations,omitempty" yaml:"validations,omitempty"`
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// Terminal reports whether the state has no outbound transitions.
func (s *State) Terminal() bool {
	return len(s.Transitions) == 0
}

// TransitionFor returns the state's own transition for the trigger, if any.
func (s *State) TransitionFor(trigger string) (Transition, bool) {
	for _, t := range s.Transitions {
		if t.Trigger == trigger {
			return t, true
		}
	}
	return Transition{}, false
}

// SourceStates is the tagged source-state specifier of a multi-trigger:
// either every declared state (All) or an explicit set of names.
type SourceStates struct {
	All   bool     `json:"all,omitempty" yaml:"all,omitempty"`
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`
}

// Contains reports whether the specifier applies to the given state.
func (s SourceStates) Contains(state string) bool {
	if s.All {
		return true
	}
	for _, name := range s.Names {
		if name == state {
			return true
		}
	}
	return false
}

// Overlaps reports whether two specifiers share at least one applicable state.
func (s SourceStates) Overlaps(other SourceStates) bool {
	if s.All || other.All {
		return true
	}
	for _, name := range s.Names {
		if other.Contains(name) {
			return true
		}
	}
	return false
}

func (s SourceStates) String() string {
	if s.All {
		return WildcardStar
	}
	return strings.Join(s.Names, ",")
}

// MultiTrigger is a trigger defined once and applicable from many states,
// instead of being duplicated on each source state.
type MultiTrigger struct {
	Trigger     string       `json:"trigger_name" yaml:"trigger_name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Destination string       `json:"destination_state" yaml:"destination_state"`
	Routine     string       `json:"routine_to_change_state" yaml:"routine_to_change_state"`
	Sources     SourceStates `json:"source_states" yaml:"source_states"`
}

// Model is the validated, immutable transition graph. It is built once by the
// compiler and shared read-only across any number of path executions.
type Model struct {
	Name          string            `json:"model" yaml:"model"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
	InitialState  string            `json:"initial_state" yaml:"initial_state"`
	States        map[string]*State `json:"states" yaml:"states"`
	StateOrder    []string          `json:"state_order" yaml:"state_order"`
	MultiTriggers []MultiTrigger    `json:"multi_triggers,omitempty" yaml:"multi_triggers,omitempty"`
}

// State returns the named state, or nil if undeclared.
func (m *Model) State(name string) *State {
	return m.States[name]
}

// HasTrigger reports whether the trigger name is declared anywhere in the
// model, on any state or as a multi-trigger. Used for static path validation;
// it says nothing about reachability from a particular state.
func (m *Model) HasTrigger(trigger string) bool {
	for _, s := range m.States {
		if _, ok := s.TransitionFor(trigger); ok {
			return true
		}
	}
	for _, mt := range m.MultiTriggers {
		if mt.Trigger == trigger {
			return true
		}
	}
	return false
}

// Triggers returns the set of all declared trigger names, state order first,
// multi-triggers last, deduplicated.
func (m *Model) Triggers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range m.StateOrder {
		for _, t := range m.States[name].Transitions {
			if !seen[t.Trigger] {
				seen[t.Trigger] = true
				out = append(out, t.Trigger)
			}
		}
	}
	for _, mt := range m.MultiTriggers {
		if !seen[mt.Trigger] {
			seen[mt.Trigger] = true
			out = append(out, mt.Trigger)
		}
	}
	return out
}

// Routines returns every callback routine name referenced by the model:
// transition routines (state-level and multi-trigger) and validation routines.
// Empty and "None" routines are skipped.
func (m *Model) Routines() (transitions []string, validations []string) {
	seenT := make(map[string]bool)
	seenV := make(map[string]bool)
	add := func(seen map[string]bool, list *[]string, name string) {
		if name == "" || name == "None" || seen[name] {
			return
		}
		seen[name] = true
		*list = append(*list, name)
	}
	for _, name := range m.StateOrder {
		s := m.States[name]
		for _, t := range s.Transitions {
			add(seenT, &transitions, t.Routine)
		}
		for _, v := range s.Validations {
			add(seenV, &validations, v.Routine)
		}
	}
	for _, mt := range m.MultiTriggers {
		add(seenT, &transitions, mt.Routine)
	}
	return transitions, validations
}
