/*
Package flowrunner is a declarative test-execution engine for finite state
machines. A machine definition (states, validations, transitions) and a set
of test paths (trigger sequences with data and expectations) are written in
YAML; the engine replays each path against the model, calls the registered
Go routines at every hop, and produces a step-by-step result report.

# Concept

The model is the single source of truth for what the system under test may
do: which triggers exist in which states, where they lead, and which
validations hold in each state. A path is a claim about one walk through
that graph. Running a path checks the claim: triggers must resolve,
transition routines must fire, and every destination-state validation is
compared against the step's expectations.

Paths can inherit from one another. A derived case references a base case
("file:suite:case") and describes itself as a set of step deletions,
updates, and insertions, so large suites share their common prefix instead
of repeating it.

# Key Features

  - Fail-fast construction: structural problems in the definition, unknown
    routine names, and broken inheritance chains surface before any routine
    runs.
  - Forgiving execution: a trigger that does not resolve at runtime marks
    the step failed and the run keeps going, so one report shows every
    divergence.
  - Observability: lifecycle hooks stream step, transition, and validation
    events; Prometheus counters ride on the same hooks.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/rsmiech/flowrunner"
		"github.com/rsmiech/flowrunner/pkg/registry"
	)

	func main() {
		reg := registry.New()
		reg.RegisterTransition("charge_card", func(ctx context.Context, data map[string]any) error {
			return nil
		})
		reg.RegisterValidation("payment_settled", func(ctx context.Context) (bool, error) {
			return true, nil
		})

		runner, err := flowrunner.New("order.yaml", reg)
		if err != nil {
			log.Fatal(err)
		}

		report, err := runner.RunCase(context.Background(), "paths.yaml", "checkout", "happy")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("passed:", report.Passed, "final state:", report.FinalState)
	}
*/
package flowrunner
