package dsl

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// PathBuilder provides a fluent API for defining a test path in code.
type PathBuilder struct {
	path domain.PathDefinition
	errs []error
}

// NewPath starts a path definition under the given suite and case name.
func NewPath(suite, name string) *PathBuilder {
	return &PathBuilder{
		path: domain.PathDefinition{Suite: suite, Case: name},
	}
}

// Describe sets the path description.
func (p *PathBuilder) Describe(text string) *PathBuilder {
	p.path.Description = text
	return p
}

// Step appends a step firing the trigger. ID, Data and Expect configure the
// step until the next Step call.
func (p *PathBuilder) Step(trigger string) *PathBuilder {
	p.path.Steps = append(p.path.Steps, domain.Step{Trigger: trigger})
	return p
}

// ID sets the identifier of the current step. Steps left without an ID get
// their one-based position at Build time.
func (p *PathBuilder) ID(id string) *PathBuilder {
	if s := p.current("ID"); s != nil {
		s.ID = id
	}
	return p
}

// Data adds a key to the payload handed to the current step's routine.
func (p *PathBuilder) Data(key string, value any) *PathBuilder {
	if s := p.current("Data"); s != nil {
		if s.Data == nil {
			s.Data = make(map[string]any)
		}
		s.Data[key] = value
	}
	return p
}

// Expect sets the expected outcome of a validation for the current step.
// Validations never mentioned are expected to pass.
func (p *PathBuilder) Expect(validation string, outcome bool) *PathBuilder {
	if s := p.current("Expect"); s != nil {
		if s.Expectations == nil {
			s.Expectations = make(map[string]bool)
		}
		s.Expectations[validation] = outcome
	}
	return p
}

// Build finalizes the path, assigning positional IDs to unnamed steps and
// rejecting duplicate IDs.
func (p *PathBuilder) Build() (domain.PathDefinition, error) {
	seen := make(map[string]bool)
	for i := range p.path.Steps {
		s := &p.path.Steps[i]
		if s.ID == "" {
			s.ID = strconv.Itoa(i + 1)
		}
		if seen[s.ID] {
			p.errs = append(p.errs, fmt.Errorf("duplicate step id %q", s.ID))
		}
		seen[s.ID] = true
	}
	if len(p.errs) > 0 {
		return domain.PathDefinition{}, errors.Join(p.errs...)
	}
	return p.path, nil
}

func (p *PathBuilder) current(method string) *domain.Step {
	if len(p.path.Steps) == 0 {
		p.errs = append(p.errs, fmt.Errorf("%s called before any Step", method))
		return nil
	}
	return &p.path.Steps[len(p.path.Steps)-1]
}
