package flowrunner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner"
	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/registry"
)

const orderDefinition = `
model: ORDER
initial_state: CREATED
definition:
  - CREATED:
      transitions:
        - trigger_name: PAY
          destination_state: PAID
          routine_to_change_state: charge_card
  - PAID:
      validations:
        - name: payment_settled
          routine: check_settlement
      transitions:
        - trigger_name: SHIP
          destination_state: SHIPPED
  - SHIPPED: {}
  - __MULTI_TRIGGERS__:
      - trigger_name: CANCEL
        destination_state: CREATED
        source_states: [CREATED, PAID]
`

const orderPaths = `
checkout:
  happy:
    description: pay then ship
    steps:
      - PAY:
          id: pay
          data:
            amount: 42
      - SHIP:
          id: ship
  cancel:
    reference: paths.yaml:checkout:happy
    steps_to_delete: [ship]
    steps_to_add:
      - CANCEL:
          id: cancel
          after_id: pay
`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	def := filepath.Join(dir, "order.yaml")
	paths := filepath.Join(dir, "paths.yaml")
	require.NoError(t, os.WriteFile(def, []byte(orderDefinition), 0o644))
	require.NoError(t, os.WriteFile(paths, []byte(orderPaths), 0o644))
	return def, paths
}

func orderRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.RegisterTransition("charge_card", func(ctx context.Context, data map[string]any) error {
		return nil
	})
	reg.RegisterValidation("check_settlement", func(ctx context.Context) (bool, error) {
		return true, nil
	})
	return reg
}

func TestNew_UnknownRoutineFailsFast(t *testing.T) {
	def, _ := writeFixtures(t)

	_, err := flowrunner.New(def, registry.New())
	require.Error(t, err)

	var notFound *domain.RoutineNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRunCase_HappyPath(t *testing.T) {
	def, paths := writeFixtures(t)

	runner, err := flowrunner.New(def, orderRegistry(t), flowrunner.WithLogger(slogt.New(t)))
	require.NoError(t, err)

	report, err := runner.RunCase(context.Background(), paths, "checkout", "happy")
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.Equal(t, "SHIPPED", report.FinalState)
	assert.Equal(t, []string{"CREATED", "PAID", "SHIPPED"}, report.Trail)
	assert.Equal(t, "pay then ship", report.Description)
}

func TestRunCase_InheritedCase(t *testing.T) {
	def, paths := writeFixtures(t)

	runner, err := flowrunner.New(def, orderRegistry(t), flowrunner.WithLogger(slogt.New(t)))
	require.NoError(t, err)

	report, err := runner.RunCase(context.Background(), paths, "checkout", "cancel")
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.Equal(t, "CREATED", report.FinalState)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, "cancel", report.Steps[1].StepID)
}

func TestRunSuite_RunsEveryCase(t *testing.T) {
	def, paths := writeFixtures(t)

	runner, err := flowrunner.New(def, orderRegistry(t))
	require.NoError(t, err)

	reports, err := runner.RunSuite(context.Background(), paths, "checkout")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Lexical case order.
	assert.Equal(t, "cancel", reports[0].Case)
	assert.Equal(t, "happy", reports[1].Case)

	_, err = runner.RunSuite(context.Background(), paths, "missing")
	assert.ErrorContains(t, err, "has no cases")
}

func TestWithLifecycleHooks_FireInOrder(t *testing.T) {
	def, paths := writeFixtures(t)

	var events []string
	hooks := domain.LifecycleHooks{
		OnStepStart: func(_ context.Context, e *domain.StepEvent) {
			events = append(events, "start:"+e.StepID)
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			events = append(events, "end:"+e.StepID)
		},
	}

	runner, err := flowrunner.New(def, orderRegistry(t), flowrunner.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, err = runner.RunCase(context.Background(), paths, "checkout", "happy")
	require.NoError(t, err)

	assert.Equal(t, []string{"start:pay", "end:pay", "start:ship", "end:ship"}, events)
}
