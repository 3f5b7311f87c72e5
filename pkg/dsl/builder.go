package dsl

import (
	"errors"
	"fmt"

	"github.com/rsmiech/flowrunner/internal/compiler"
	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Builder assembles a machine definition in code.
type Builder struct {
	name        string
	description string
	initial     string
	states      map[string]*StateBuilder
	order       []string
	multi       []*MultiTriggerBuilder
	errs        []error
}

// NewModel starts a new machine definition with the given model name.
func NewModel(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[string]*StateBuilder),
	}
}

// Describe sets the model description.
func (b *Builder) Describe(text string) *Builder {
	b.description = text
	return b
}

// Initial sets the initial state. When never called, the first declared
// state is the initial state.
func (b *Builder) Initial(state string) *Builder {
	b.initial = state
	return b
}

// State declares a state, or returns the existing builder when the state
// was declared before.
func (b *Builder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// MultiTrigger declares a trigger applicable from many states at once.
// Call From or FromAny on the result to set its source states.
func (b *Builder) MultiTrigger(trigger, destination string) *MultiTriggerBuilder {
	mb := &MultiTriggerBuilder{trigger: trigger, destination: destination}
	b.multi = append(b.multi, mb)
	return mb
}

// Build compiles the definition into a validated model. Structural problems
// accumulated while chaining and those found by the compiler are aggregated,
// so a broken definition surfaces every problem at once.
func (b *Builder) Build() (*domain.Model, error) {
	initial := b.initial
	if initial == "" && len(b.order) > 0 {
		initial = b.order[0]
	}

	raw := &dto.RawDefinition{
		Model:        b.name,
		Description:  b.description,
		InitialState: initial,
	}
	for _, name := range b.order {
		raw.Definition = append(raw.Definition, map[string]any{
			name: b.states[name].raw(),
		})
	}
	if len(b.multi) > 0 {
		entries := make([]map[string]any, 0, len(b.multi))
		for _, mb := range b.multi {
			entry, err := mb.raw()
			if err != nil {
				b.errs = append(b.errs, err)
				continue
			}
			entries = append(entries, entry)
		}
		raw.Definition = append(raw.Definition, map[string]any{
			compiler.MultiTriggersKey: entries,
		})
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return compiler.Build(raw)
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}
