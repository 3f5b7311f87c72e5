// Package paths flattens path inheritance chains. An inherited path is a set
// of delete/update/add mutations over a referenced parent; resolving a chain
// folds each mutation set, base first, onto the accumulated step sequence
// until one concrete PathDefinition remains.
package paths

import (
	"fmt"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Resolve applies the given specs, ordered base to most-derived, onto the
// base path's steps and returns the final concrete definition. The input
// path is never mutated; resolving the same chain twice yields identical
// results.
func Resolve(base *domain.PathDefinition, specs ...*domain.InheritedPathSpec) (*domain.PathDefinition, error) {
	steps := make([]domain.Step, len(base.Steps))
	for i, s := range base.Steps {
		steps[i] = s.Clone()
	}

	out := &domain.PathDefinition{
		Suite:       base.Suite,
		Case:        base.Case,
		Description: base.Description,
		Steps:       steps,
	}

	for _, spec := range specs {
		var err error
		out.Steps, err = apply(out.Steps, spec)
		if err != nil {
			return nil, err
		}
		if spec.Suite != "" {
			out.Suite = spec.Suite
		}
		if spec.Case != "" {
			out.Case = spec.Case
		}
		if spec.Description != "" {
			out.Description = spec.Description
		}
	}

	if err := checkUniqueIDs(out.Steps); err != nil {
		return nil, err
	}
	return out, nil
}

// apply runs one spec's mutations in the fixed order delete, update, add.
// The order lets an added step reference any landmark that survives the
// earlier phases without depending on declaration order across lists.
func apply(steps []domain.Step, spec *domain.InheritedPathSpec) ([]domain.Step, error) {
	fail := func(format string, args ...any) error {
		return &domain.ResolutionError{Ref: spec.Reference, Detail: fmt.Sprintf(format, args...)}
	}

	// Deletions first.
	for _, id := range spec.Deletes {
		idx := indexOf(steps, id)
		if idx < 0 {
			return nil, fail("cannot delete unknown step id %q", id)
		}
		steps = append(steps[:idx], steps[idx+1:]...)
	}

	// Updates replace data and expectations in place; id and trigger are
	// immutable once a step exists.
	for _, patch := range spec.Updates {
		idx := indexOf(steps, patch.ID)
		if idx < 0 {
			return nil, fail("cannot update unknown step id %q", patch.ID)
		}
		updated := steps[idx].Clone()
		updated.Data = cloneData(patch.Data)
		updated.Expectations = cloneExpectations(patch.Expectations)
		steps[idx] = updated
	}

	// Additions last, each seeing the effect of prior insertions.
	for _, add := range spec.Adds {
		if indexOf(steps, add.Step.ID) >= 0 {
			return nil, fail("added step id %q already exists", add.Step.ID)
		}
		switch {
		case add.BeforeID != "":
			idx := indexOf(steps, add.BeforeID)
			if idx < 0 {
				return nil, fail("landmark id %q for added step %q does not exist", add.BeforeID, add.Step.ID)
			}
			steps = insertAt(steps, idx, add.Step.Clone())
		case add.AfterID != "":
			idx := indexOf(steps, add.AfterID)
			if idx < 0 {
				return nil, fail("landmark id %q for added step %q does not exist", add.AfterID, add.Step.ID)
			}
			steps = insertAt(steps, idx+1, add.Step.Clone())
		default:
			return nil, fail("added step %q has no before_id or after_id landmark", add.Step.ID)
		}
	}

	return steps, nil
}

func checkUniqueIDs(steps []domain.Step) error {
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if seen[s.ID] {
			return &domain.ResolutionError{Detail: fmt.Sprintf("resolved path has duplicate step id %q", s.ID)}
		}
		seen[s.ID] = true
	}
	return nil
}

func indexOf(steps []domain.Step, id string) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func insertAt(steps []domain.Step, idx int, step domain.Step) []domain.Step {
	steps = append(steps, domain.Step{})
	copy(steps[idx+1:], steps[idx:])
	steps[idx] = step
	return steps
}

func cloneData(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneExpectations(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
