package flowrunner_test

import (
	"context"
	"fmt"
	"log"

	"github.com/rsmiech/flowrunner"
	"github.com/rsmiech/flowrunner/pkg/dsl"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

// ExampleNewFromModel demonstrates using flowrunner purely as a Go library,
// building the machine and the path in code without any YAML files.
func ExampleNewFromModel() {
	// 1. Define the machine using pure Go
	b := dsl.NewModel("LAMP").Initial("OFF")
	b.State("OFF").
		On("FLIP", "ON").Using("flip_up")
	b.State("ON").
		Check("light_visible", "check_light").
		On("FLIP", "OFF").Using("flip_down")

	model, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Register the routines driving the system under test
	lampOn := false
	reg := registry.New()
	reg.RegisterTransition("flip_up", func(ctx context.Context, data map[string]any) error {
		lampOn = true
		return nil
	})
	reg.RegisterTransition("flip_down", func(ctx context.Context, data map[string]any) error {
		lampOn = false
		return nil
	})
	reg.RegisterValidation("check_light", func(ctx context.Context) (bool, error) {
		return lampOn, nil
	})

	runner, err := flowrunner.NewFromModel(model, reg)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Define and run a path
	path, err := dsl.NewPath("smoke", "on_off").
		Step("FLIP").
		Step("FLIP").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	report, err := runner.Run(context.Background(), &path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(report.Passed, report.FinalState)
	// Output:
	// true OFF
}
