package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/internal/compiler"
	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

func lampDefinition() *dto.RawDefinition {
	return &dto.RawDefinition{
		Model:        "LAMP",
		InitialState: "OFF",
		Definition: []map[string]any{
			{"OFF": map[string]any{
				"transitions": []map[string]any{
					{"trigger_name": "FLIP", "destination_state": "ON", "routine_to_change_state": "turn_on"},
				},
			}},
			{"ON": map[string]any{
				"validations": []map[string]any{
					{"name": "light_visible", "routine": "check_light"},
				},
				"transitions": []map[string]any{
					{"trigger_name": "FLIP", "destination_state": "OFF"},
				},
			}},
			{"BROKEN": map[string]any{
				"description": "terminal",
			}},
			{compiler.MultiTriggersKey: []map[string]any{
				{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": "*"},
			}},
		},
	}
}

func TestBuild_FullModel(t *testing.T) {
	model, err := compiler.Build(lampDefinition())
	require.NoError(t, err)

	assert.Equal(t, "LAMP", model.Name)
	assert.Equal(t, "OFF", model.InitialState)
	assert.Equal(t, []string{"OFF", "ON", "BROKEN"}, model.StateOrder)

	tr, ok := model.State("OFF").TransitionFor("FLIP")
	require.True(t, ok)
	assert.Equal(t, "ON", tr.Destination)
	assert.Equal(t, "turn_on", tr.Routine)

	assert.True(t, model.State("BROKEN").Terminal())

	require.Len(t, model.MultiTriggers, 1)
	assert.True(t, model.MultiTriggers[0].Sources.All)
}

func TestBuild_EqualsWildcard(t *testing.T) {
	raw := lampDefinition()
	raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
		{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": "="},
	}}

	model, err := compiler.Build(raw)
	require.NoError(t, err)
	assert.True(t, model.MultiTriggers[0].Sources.All)
}

func TestBuild_ExplicitSourceList(t *testing.T) {
	raw := lampDefinition()
	raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
		{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": []any{"ON"}},
	}}

	model, err := compiler.Build(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"ON"}, model.MultiTriggers[0].Sources.Names)
	assert.False(t, model.MultiTriggers[0].Sources.All)
}

func TestBuild_Routines(t *testing.T) {
	raw := lampDefinition()
	raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
		{"trigger_name": "SMASH", "destination_state": "BROKEN",
			"routine_to_change_state": "smash_it", "source_states": "*"},
	}}

	model, err := compiler.Build(raw)
	require.NoError(t, err)

	transitions, validations := model.Routines()
	assert.ElementsMatch(t, []string{"turn_on", "smash_it"}, transitions)
	assert.Equal(t, []string{"check_light"}, validations)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RawDefinition)
		want   string
	}{
		{
			name: "undeclared initial state",
			mutate: func(raw *dto.RawDefinition) {
				raw.InitialState = "MISSING"
			},
			want: `initial state "MISSING" is not declared`,
		},
		{
			name: "dangling destination",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition[0] = map[string]any{"OFF": map[string]any{
					"transitions": []map[string]any{
						{"trigger_name": "FLIP", "destination_state": "NOWHERE"},
					},
				}}
			},
			want: `points to undeclared state "NOWHERE"`,
		},
		{
			name: "reserved prefix state name",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition = append(raw.Definition, map[string]any{"__SECRET": map[string]any{}})
			},
			want: `reserved "__" prefix`,
		},
		{
			name: "duplicate state",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition = append(raw.Definition, map[string]any{"ON": map[string]any{}})
			},
			want: `duplicate state "ON"`,
		},
		{
			name: "duplicate trigger on one state",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition[0] = map[string]any{"OFF": map[string]any{
					"transitions": []map[string]any{
						{"trigger_name": "FLIP", "destination_state": "ON"},
						{"trigger_name": "FLIP", "destination_state": "BROKEN"},
					},
				}}
			},
			want: `duplicate trigger "FLIP"`,
		},
		{
			name: "multi-trigger undeclared source",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
					{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": []any{"NOWHERE"}},
				}}
			},
			want: `source state "NOWHERE" is not declared`,
		},
		{
			name: "multi-trigger unknown wildcard",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
					{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": "%"},
				}}
			},
			want: `unrecognized wildcard "%"`,
		},
		{
			name: "overlapping multi-triggers with same name",
			mutate: func(raw *dto.RawDefinition) {
				raw.Definition[3] = map[string]any{compiler.MultiTriggersKey: []map[string]any{
					{"trigger_name": "SMASH", "destination_state": "BROKEN", "source_states": "*"},
					{"trigger_name": "SMASH", "destination_state": "OFF", "source_states": []any{"ON"}},
				}}
			},
			want: `declared twice for overlapping source states`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := lampDefinition()
			tt.mutate(raw)

			_, err := compiler.Build(raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var defErr *domain.DefinitionError
			assert.ErrorAs(t, err, &defErr)
		})
	}
}

func TestBuild_AggregatesAllErrors(t *testing.T) {
	raw := lampDefinition()
	raw.InitialState = "MISSING"
	raw.Definition = append(raw.Definition, map[string]any{"__SECRET": map[string]any{}})

	_, err := compiler.Build(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `initial state "MISSING"`)
	assert.Contains(t, err.Error(), `reserved "__" prefix`)
}
