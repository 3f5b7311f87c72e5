package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/dsl"
)

func TestBuilder_SimpleMachine(t *testing.T) {
	b := dsl.NewModel("LAMP").Describe("A lamp").Initial("OFF")

	b.State("OFF").
		On("FLIP", "ON").Using("turn_on")
	b.State("ON").
		Check("light_visible", "check_light").
		On("FLIP", "OFF").Using("turn_off")

	model, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "LAMP", model.Name)
	assert.Equal(t, "OFF", model.InitialState)
	assert.Equal(t, []string{"OFF", "ON"}, model.StateOrder)

	tr, ok := model.State("OFF").TransitionFor("FLIP")
	require.True(t, ok)
	assert.Equal(t, "ON", tr.Destination)
	assert.Equal(t, "turn_on", tr.Routine)

	require.Len(t, model.State("ON").Validations, 1)
	assert.Equal(t, "light_visible", model.State("ON").Validations[0].Name)
}

func TestBuilder_DefaultInitialState(t *testing.T) {
	b := dsl.NewModel("DOOR")
	b.State("CLOSED").On("OPEN", "OPENED")
	b.State("OPENED")

	model, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", model.InitialState)
}

func TestBuilder_StateIsReentrant(t *testing.T) {
	b := dsl.NewModel("DOOR")
	b.State("CLOSED").On("OPEN", "OPENED")
	b.State("OPENED")
	// A second State call extends the existing state instead of duplicating it.
	b.State("CLOSED").Check("locked", "check_lock")

	model, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"CLOSED", "OPENED"}, model.StateOrder)
	assert.Len(t, model.State("CLOSED").Validations, 1)
}

func TestBuilder_MultiTriggers(t *testing.T) {
	b := dsl.NewModel("LAMP")
	b.State("OFF").On("FLIP", "ON")
	b.State("ON").On("FLIP", "OFF")
	b.State("BROKEN")
	b.MultiTrigger("SMASH", "BROKEN").Using("smash_it").FromAny()
	b.MultiTrigger("SHAKE", "OFF").From("ON")

	model, err := b.Build()
	require.NoError(t, err)

	require.Len(t, model.MultiTriggers, 2)
	assert.True(t, model.MultiTriggers[0].Sources.All)
	assert.Equal(t, "smash_it", model.MultiTriggers[0].Routine)
	assert.Equal(t, []string{"ON"}, model.MultiTriggers[1].Sources.Names)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("using before transition", func(t *testing.T) {
		b := dsl.NewModel("X")
		b.State("A").Using("nope")

		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "before any transition")
	})

	t.Run("multi-trigger without sources", func(t *testing.T) {
		b := dsl.NewModel("X")
		b.State("A")
		b.MultiTrigger("RESET", "A")

		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no source states")
	})

	t.Run("compiler errors surface", func(t *testing.T) {
		b := dsl.NewModel("X")
		b.State("A").On("GO", "MISSING")

		_, err := b.Build()
		require.Error(t, err)
		var defErr *domain.DefinitionError
		assert.ErrorAs(t, err, &defErr)
	})
}

func TestNewPath(t *testing.T) {
	path, err := dsl.NewPath("smoke", "on_off").
		Describe("flip twice").
		Step("FLIP").ID("first").Data("speed", "slow").Expect("light_visible", true).
		Step("FLIP").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "smoke", path.Suite)
	assert.Equal(t, "on_off", path.Case)
	require.Len(t, path.Steps, 2)
	assert.Equal(t, "first", path.Steps[0].ID)
	assert.Equal(t, "slow", path.Steps[0].Data["speed"])
	assert.True(t, path.Steps[0].Expectation("light_visible"))
	// Unnamed steps get their position.
	assert.Equal(t, "2", path.Steps[1].ID)
}

func TestNewPath_Errors(t *testing.T) {
	t.Run("modifier before step", func(t *testing.T) {
		_, err := dsl.NewPath("s", "c").Data("k", "v").Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "before any Step")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := dsl.NewPath("s", "c").
			Step("A").ID("x").
			Step("B").ID("x").
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate step id "x"`)
	})
}
