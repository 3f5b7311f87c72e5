package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/internal/adapters/yamlfile"
	"github.com/rsmiech/flowrunner/internal/cli"
	"github.com/rsmiech/flowrunner/internal/config"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

const machineYAML = `
model: LAMP
initial_state: OFF
definition:
  - OFF:
      transitions:
        - trigger_name: SWITCH_ON
          destination_state: ON
          routine_to_change_state: flip_up
  - ON:
      validations:
        - name: light_visible
          routine: check_light
      transitions:
        - trigger_name: SWITCH_OFF
          destination_state: OFF
`

const pathsYAML = `
smoke:
  on_off:
    steps:
      - SWITCH_ON:
          id: on
      - SWITCH_OFF:
          id: off
  broken:
    steps:
      - SWITCH_OFF:
          id: off
`

func writeRunFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	def := filepath.Join(dir, "lamp.yaml")
	paths := filepath.Join(dir, "paths.yaml")
	require.NoError(t, os.WriteFile(def, []byte(machineYAML), 0o644))
	require.NoError(t, os.WriteFile(paths, []byte(pathsYAML), 0o644))
	return def, paths
}

func TestExecute_SingleCaseWithStubs(t *testing.T) {
	def, paths := writeRunFixtures(t)
	chdir(t, t.TempDir())

	err := cli.Execute(context.Background(), cli.RunOptions{
		Definition: def,
		Paths:      paths,
		Suite:      "smoke",
		Case:       "on_off",
	}, nil)
	assert.NoError(t, err)
}

func TestExecute_FailingCaseReturnsErrRunFailed(t *testing.T) {
	def, paths := writeRunFixtures(t)
	chdir(t, t.TempDir())

	// The whole file includes "broken", whose first trigger cannot resolve
	// from the initial state.
	err := cli.Execute(context.Background(), cli.RunOptions{
		Definition: def,
		Paths:      paths,
	}, nil)
	assert.ErrorIs(t, err, cli.ErrRunFailed)
}

func TestExecute_RequiresDefinitionAndPaths(t *testing.T) {
	chdir(t, t.TempDir())

	err := cli.Execute(context.Background(), cli.RunOptions{}, nil)
	assert.ErrorContains(t, err, "no machine definition")
}

func TestExecute_ArchivesToFileStore(t *testing.T) {
	def, paths := writeRunFixtures(t)
	workDir := t.TempDir()
	chdir(t, workDir)

	reportDir := filepath.Join(workDir, "reports")
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".flowrunner.yaml"), []byte(
		"reports:\n  store: file\n  dir: "+reportDir+"\n"), 0o644))

	err := cli.Execute(context.Background(), cli.RunOptions{
		Definition: def,
		Paths:      paths,
		Suite:      "smoke",
		Case:       "on_off",
	}, nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(reportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "LAMP-smoke-on_off")
}

func TestStubRegistry_CoversModelRoutines(t *testing.T) {
	model, err := yamlfile.ParseDefinition([]byte(machineYAML))
	require.NoError(t, err)

	reg := cli.StubRegistry(model)
	require.NoError(t, reg.Bind(model))

	fn, err := reg.Validation("check_light")
	require.NoError(t, err)
	ok, err := fn(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewReportStore_None(t *testing.T) {
	store, _, err := cli.NewReportStore(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestDebugHooks_CoverEveryEvent(t *testing.T) {
	hooks := cli.DebugHooks(slogt.New(t))
	ctx := context.Background()

	require.NotNil(t, hooks.OnStepStart)
	require.NotNil(t, hooks.OnTransition)
	require.NotNil(t, hooks.OnValidation)
	require.NotNil(t, hooks.OnStepEnd)

	hooks.OnStepStart(ctx, &domain.StepEvent{StepID: "on", Trigger: "SWITCH_ON", State: "OFF"})
	hooks.OnTransition(ctx, &domain.TransitionEvent{StepID: "on", From: "OFF", Destination: "ON", IsError: true})
	hooks.OnValidation(ctx, &domain.ValidationEvent{StepID: "on", Name: "light_visible", Passed: true})
	hooks.OnStepEnd(ctx, &domain.StepEvent{StepID: "on", Passed: true})
}
