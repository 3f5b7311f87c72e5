package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

func testModel() *domain.Model {
	return &domain.Model{
		Name:         "LAMP",
		InitialState: "OFF",
		StateOrder:   []string{"OFF", "ON", "BROKEN"},
		States: map[string]*domain.State{
			"OFF": {
				Name: "OFF",
				Transitions: []domain.Transition{
					{Trigger: "FLIP", Destination: "ON", Routine: "flip_up"},
				},
			},
			"ON": {
				Name: "ON",
				Validations: []domain.Validation{
					{Name: "light_visible", Routine: "check_light"},
				},
				Transitions: []domain.Transition{
					{Trigger: "FLIP", Destination: "OFF", Routine: "None"},
				},
			},
			"BROKEN": {Name: "BROKEN"},
		},
		MultiTriggers: []domain.MultiTrigger{
			{Trigger: "SMASH", Destination: "BROKEN", Routine: "smash_it",
				Sources: domain.SourceStates{All: true}},
		},
	}
}

func TestModel_HasTrigger(t *testing.T) {
	model := testModel()
	assert.True(t, model.HasTrigger("FLIP"))
	assert.True(t, model.HasTrigger("SMASH"))
	assert.False(t, model.HasTrigger("EXPLODE"))
}

func TestModel_Triggers(t *testing.T) {
	assert.Equal(t, []string{"FLIP", "SMASH"}, testModel().Triggers())
}

func TestModel_Routines(t *testing.T) {
	transitions, validations := testModel().Routines()
	// "None" and empty routines are not real callbacks.
	assert.Equal(t, []string{"flip_up", "smash_it"}, transitions)
	assert.Equal(t, []string{"check_light"}, validations)
}

func TestState_Terminal(t *testing.T) {
	model := testModel()
	assert.True(t, model.State("BROKEN").Terminal())
	assert.False(t, model.State("OFF").Terminal())
}

func TestSourceStates(t *testing.T) {
	all := domain.SourceStates{All: true}
	some := domain.SourceStates{Names: []string{"ON", "OFF"}}
	other := domain.SourceStates{Names: []string{"BROKEN"}}

	assert.True(t, all.Contains("ANYTHING"))
	assert.True(t, some.Contains("ON"))
	assert.False(t, some.Contains("BROKEN"))

	assert.True(t, all.Overlaps(other))
	assert.True(t, some.Overlaps(domain.SourceStates{Names: []string{"OFF"}}))
	assert.False(t, some.Overlaps(other))

	assert.Equal(t, "*", all.String())
	assert.Equal(t, "ON,OFF", some.String())
}
