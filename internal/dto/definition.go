// Package dto holds the raw, untyped shapes of definition and path files as
// they come off the wire (YAML). It uses "mapstructure" tags so loaders can
// decode the generic maps produced by yaml.v3 into typed structs before the
// compiler turns them into domain values.
package dto

// RawDefinition is the top level of a machine definition file.
// Definition is a list of single-key mappings: each key is a state name,
// except the reserved "__MULTI_TRIGGERS__" entry.
type RawDefinition struct {
	Model        string           `mapstructure:"model"`
	Description  string           `mapstructure:"description"`
	InitialState string           `mapstructure:"initial_state"`
	Definition   []map[string]any `mapstructure:"definition"`
}

// RawState is the body of one state entry in the definition list.
type RawState struct {
	Description string          `mapstructure:"description"`
	Validations []RawValidation `mapstructure:"validations"`
	Transitions []RawTransition `mapstructure:"transitions"`
}

// RawValidation is one entry of a state's validations list.
type RawValidation struct {
	Name    string `mapstructure:"name"`
	Routine string `mapstructure:"routine"`
}

// RawTransition is one entry of a state's transitions list.
type RawTransition struct {
	TriggerName string `mapstructure:"trigger_name"`
	Destination string `mapstructure:"destination_state"`
	ChangeState string `mapstructure:"routine_to_change_state"`
	Description string `mapstructure:"description"`
}

// RawMultiTrigger is one entry of the reserved __MULTI_TRIGGERS__ list.
// SourceStates is either a wildcard token string or a list of state names;
// the compiler resolves the variant.
type RawMultiTrigger struct {
	TriggerName  string `mapstructure:"trigger_name"`
	Description  string `mapstructure:"description"`
	Destination  string `mapstructure:"destination_state"`
	ChangeState  string `mapstructure:"routine_to_change_state"`
	SourceStates any    `mapstructure:"source_states"`
}

// RawStep is the body of one step entry in a path file. The trigger name is
// the entry's key, so it is carried separately by the loader.
type RawStep struct {
	ID           any             `mapstructure:"id"`
	Data         map[string]any  `mapstructure:"data"`
	Expectations map[string]bool `mapstructure:"expectations"`
	BeforeID     any             `mapstructure:"before_id"`
	AfterID      any             `mapstructure:"after_id"`
}

// RawCase is the body of one test case in a path file. A concrete case has
// Steps; an inherited case has Reference plus mutation lists.
type RawCase struct {
	Description string           `mapstructure:"description"`
	Reference   string           `mapstructure:"reference"`
	Steps       []map[string]any `mapstructure:"steps"`
	StepsToAdd  []map[string]any `mapstructure:"steps_to_add"`
	StepsToDel  []any            `mapstructure:"steps_to_delete"`
	StepsToMod  []map[string]any `mapstructure:"steps_to_update"`
}
