// Package compiler turns raw machine definitions into validated domain
// models. Construction is all-or-nothing: every structural check runs before
// any execution, and a partially valid model is never returned.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// MultiTriggersKey is the reserved definition entry holding the
// multi-trigger list. It is not a state.
const MultiTriggersKey = domain.ReservedPrefix + "MULTI_TRIGGERS" + domain.ReservedPrefix

// Build validates a raw definition and assembles the immutable model.
// All violations found are aggregated into a single DefinitionError chain
// via errors.Join, so a broken definition surfaces every problem at once.
func Build(raw *dto.RawDefinition) (*domain.Model, error) {
	model := &domain.Model{
		Name:         raw.Model,
		Description:  raw.Description,
		InitialState: raw.InitialState,
		States:       make(map[string]*domain.State),
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &domain.DefinitionError{
			Model:  raw.Model,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	var rawMulti []map[string]any

	for _, entry := range raw.Definition {
		if len(entry) != 1 {
			fail("definition entries must be single-key mappings, got %d keys", len(entry))
			continue
		}
		for name, body := range entry {
			if name == MultiTriggersKey {
				if err := decode(body, &rawMulti); err != nil {
					fail("malformed %s entry: %v", MultiTriggersKey, err)
				}
				continue
			}
			if strings.HasPrefix(name, domain.ReservedPrefix) {
				fail("state name %q uses the reserved %q prefix", name, domain.ReservedPrefix)
				continue
			}
			if _, dup := model.States[name]; dup {
				fail("duplicate state %q", name)
				continue
			}
			state, err := buildState(name, body)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			model.States[name] = state
			model.StateOrder = append(model.StateOrder, name)
		}
	}

	// Cross-state checks only make sense once all states are collected.
	if _, ok := model.States[model.InitialState]; !ok {
		fail("initial state %q is not declared", model.InitialState)
	}
	for _, name := range model.StateOrder {
		for _, t := range model.States[name].Transitions {
			if _, ok := model.States[t.Destination]; !ok {
				fail("state %q trigger %q points to undeclared state %q",
					name, t.Trigger, t.Destination)
			}
		}
	}

	multi, multiErrs := buildMultiTriggers(raw.Model, rawMulti, model.States)
	errs = append(errs, multiErrs...)
	model.MultiTriggers = multi

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return model, nil
}

func buildState(name string, body any) (*domain.State, error) {
	var rs dto.RawState
	if err := decode(body, &rs); err != nil {
		return nil, &domain.DefinitionError{Detail: fmt.Sprintf("state %q: %v", name, err)}
	}

	state := &domain.State{Name: name, Description: rs.Description}

	seenVals := make(map[string]bool)
	for _, v := range rs.Validations {
		if v.Name == "" {
			return nil, &domain.DefinitionError{Detail: fmt.Sprintf("state %q: validation without a name", name)}
		}
		if seenVals[v.Name] {
			return nil, &domain.DefinitionError{Detail: fmt.Sprintf("state %q: duplicate validation %q", name, v.Name)}
		}
		seenVals[v.Name] = true
		state.Validations = append(state.Validations, domain.Validation{
			Name:    v.Name,
			Routine: v.Routine,
		})
	}

	seenTriggers := make(map[string]bool)
	for _, t := range rs.Transitions {
		if t.TriggerName == "" {
			return nil, &domain.DefinitionError{Detail: fmt.Sprintf("state %q: transition without a trigger name", name)}
		}
		if seenTriggers[t.TriggerName] {
			return nil, &domain.DefinitionError{Detail: fmt.Sprintf("state %q: duplicate trigger %q", name, t.TriggerName)}
		}
		seenTriggers[t.TriggerName] = true
		state.Transitions = append(state.Transitions, domain.Transition{
			Trigger:     t.TriggerName,
			Destination: t.Destination,
			Routine:     t.ChangeState,
		})
	}

	return state, nil
}

func buildMultiTriggers(modelName string, raw []map[string]any, states map[string]*domain.State) ([]domain.MultiTrigger, []error) {
	var (
		out  []domain.MultiTrigger
		errs []error
	)
	fail := func(format string, args ...any) {
		errs = append(errs, &domain.DefinitionError{
			Model:  modelName,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	for _, entry := range raw {
		var rmt dto.RawMultiTrigger
		if err := decode(entry, &rmt); err != nil {
			fail("malformed multi-trigger entry: %v", err)
			continue
		}
		if rmt.TriggerName == "" {
			fail("multi-trigger without a trigger name")
			continue
		}
		if _, ok := states[rmt.Destination]; !ok {
			fail("multi-trigger %q points to undeclared state %q", rmt.TriggerName, rmt.Destination)
		}

		sources, err := parseSources(rmt.TriggerName, rmt.SourceStates, states)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		mt := domain.MultiTrigger{
			Trigger:     rmt.TriggerName,
			Description: rmt.Description,
			Destination: rmt.Destination,
			Routine:     rmt.ChangeState,
			Sources:     sources,
		}

		// Two multi-triggers sharing a name and an applicable state would
		// make resolution ambiguous.
		for _, prev := range out {
			if prev.Trigger == mt.Trigger && prev.Sources.Overlaps(mt.Sources) {
				fail("multi-trigger %q is declared twice for overlapping source states", mt.Trigger)
			}
		}
		out = append(out, mt)
	}

	return out, errs
}

// parseSources resolves the source_states duck type into the tagged variant:
// a wildcard token means every declared state, a list must name declared
// states only.
func parseSources(trigger string, raw any, states map[string]*domain.State) (domain.SourceStates, error) {
	switch v := raw.(type) {
	case string:
		if v == domain.WildcardStar || v == domain.WildcardEqual {
			return domain.SourceStates{All: true}, nil
		}
		return domain.SourceStates{}, &domain.DefinitionError{
			Detail: fmt.Sprintf("multi-trigger %q: unrecognized wildcard %q", trigger, v),
		}
	case []any:
		if len(v) == 0 {
			return domain.SourceStates{}, &domain.DefinitionError{
				Detail: fmt.Sprintf("multi-trigger %q: empty source state list", trigger),
			}
		}
		var names []string
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return domain.SourceStates{}, &domain.DefinitionError{
					Detail: fmt.Sprintf("multi-trigger %q: source state %v is not a string", trigger, item),
				}
			}
			if _, declared := states[name]; !declared {
				return domain.SourceStates{}, &domain.DefinitionError{
					Detail: fmt.Sprintf("multi-trigger %q: source state %q is not declared", trigger, name),
				}
			}
			names = append(names, name)
		}
		return domain.SourceStates{Names: names}, nil
	case []string:
		return parseSources(trigger, toAnySlice(v), states)
	default:
		return domain.SourceStates{}, &domain.DefinitionError{
			Detail: fmt.Sprintf("multi-trigger %q: source_states must be a wildcard or a list, got %T", trigger, raw),
		}
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
