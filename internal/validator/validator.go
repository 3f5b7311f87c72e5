// Package validator lints compiled models for problems that are legal but
// almost certainly unintended.
package validator

import (
	"fmt"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// Finding describes one model consistency warning.
type Finding struct {
	State  string
	Detail string
}

func (f Finding) String() string {
	if f.State == "" {
		return f.Detail
	}
	return fmt.Sprintf("state %q: %s", f.State, f.Detail)
}

// LintModel crawls the graph from the initial state and reports states that
// can never be reached and multi-triggers that are shadowed everywhere they
// apply. The compiler already rejects structural errors; these findings are
// warnings.
func LintModel(model *domain.Model) []Finding {
	var findings []Finding

	reachable := crawl(model)
	for _, name := range model.StateOrder {
		if !reachable[name] {
			findings = append(findings, Finding{
				State:  name,
				Detail: "unreachable from the initial state",
			})
		}
	}

	for _, mt := range model.MultiTriggers {
		if shadowedEverywhere(model, mt) {
			findings = append(findings, Finding{
				Detail: fmt.Sprintf("multi-trigger %q is shadowed by a state transition in every source state", mt.Trigger),
			})
		}
	}

	return findings
}

// crawl walks state transitions and multi-trigger edges breadth first.
func crawl(model *domain.Model) map[string]bool {
	visited := make(map[string]bool, len(model.States))
	queue := []string{model.InitialState}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		state := model.State(current)
		if state == nil {
			continue
		}
		for _, t := range state.Transitions {
			if !visited[t.Destination] {
				queue = append(queue, t.Destination)
			}
		}
		for _, mt := range model.MultiTriggers {
			if mt.Sources.Contains(current) && !visited[mt.Destination] {
				queue = append(queue, mt.Destination)
			}
		}
	}

	return visited
}

// shadowedEverywhere reports whether every source state of the multi-trigger
// declares its own transition with the same trigger name. State-level
// transitions win, so such a multi-trigger can never fire.
func shadowedEverywhere(model *domain.Model, mt domain.MultiTrigger) bool {
	sources := mt.Sources.Names
	if mt.Sources.All {
		sources = model.StateOrder
	}
	for _, name := range sources {
		state := model.State(name)
		if state == nil {
			continue
		}
		if _, ok := state.TransitionFor(mt.Trigger); !ok {
			return false
		}
	}
	return len(sources) > 0
}
