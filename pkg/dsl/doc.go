/*
Package dsl provides a fluent Go API for constructing machine definitions and
test paths in code instead of YAML files. This is useful for dynamic model
generation, unit tests, and IDE type checking.

Example usage:

	b := dsl.NewModel("LAMP").Initial("OFF")

	b.State("OFF").
		On("FLIP", "ON").Using("turn_on")

	b.State("ON").
		Check("light_visible", "check_light").
		On("FLIP", "OFF").Using("turn_off")

	b.MultiTrigger("SMASH", "BROKEN").FromAny()
	b.State("BROKEN")

	model, err := b.Build()
	// model feeds flowrunner.NewFromModel(...)

	path, err := dsl.NewPath("smoke", "on_off").
		Step("FLIP").Expect("light_visible", true).
		Step("FLIP").
		Build()
*/
package dsl
