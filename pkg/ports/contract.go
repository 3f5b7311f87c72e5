package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// RunReportStoreContract runs a suite of tests verifying that a ReportStore
// implementation adheres to the interface contract. Adapter test packages
// call it against their concrete store.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.ResultReport {
		return &domain.ResultReport{
			Model:      "ORDER",
			Suite:      "checkout",
			Case:       id,
			Passed:     true,
			FinalState: "SHIPPED",
			Trail:      []string{"CREATED", "PAID", "SHIPPED"},
			Steps: []domain.StepResult{
				{
					StepID:      "pay",
					Trigger:     "PAY",
					From:        "CREATED",
					Destination: "PAID",
					Passed:      true,
					Validations: []domain.ValidationResult{
						{Name: "payment_settled", Routine: "check_settlement", Expected: true, Actual: true, Passed: true},
					},
				},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := sample(runID)
		require.NoError(t, store.Save(ctx, runID, report), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Model, loaded.Model)
		assert.Equal(t, report.FinalState, loaded.FinalState)
		assert.Equal(t, report.Trail, loaded.Trail)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, "pay", loaded.Steps[0].StepID)
		require.Len(t, loaded.Steps[0].Validations, 1)
		assert.True(t, loaded.Steps[0].Validations[0].Passed)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		report := sample(runID)
		report.Passed = false
		report.FinalState = "PAID"
		require.NoError(t, store.Save(ctx, runID, report))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.False(t, loaded.Passed)
		assert.Equal(t, "PAID", loaded.FinalState)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, runID, sample(runID)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "deleting an absent report is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, id1, sample(id1)))
		require.NoError(t, store.Save(ctx, id2, sample(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
