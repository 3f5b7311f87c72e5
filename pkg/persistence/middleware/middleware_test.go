package middleware_test

import (
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/persistence/middleware"
	"github.com/rsmiech/flowrunner/pkg/ports"
)

type mockStore struct {
	saved map[string]*domain.ResultReport
}

func newMockStore() *mockStore {
	return &mockStore{saved: make(map[string]*domain.ResultReport)}
}

func (m *mockStore) Save(_ context.Context, id string, r *domain.ResultReport) error {
	m.saved[id] = r
	return nil
}

func (m *mockStore) Load(_ context.Context, id string) (*domain.ResultReport, error) {
	r, ok := m.saved[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	delete(m.saved, id)
	return nil
}

func (m *mockStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.saved))
	for id := range m.saved {
		ids = append(ids, id)
	}
	return ids, nil
}

var _ ports.ReportStore = (*mockStore)(nil)

func TestRedactMiddleware_MasksErrorMessages(t *testing.T) {
	inner := newMockStore()
	store := middleware.NewRedactMiddleware([]string{`token=\S+`})(inner)

	report := &domain.ResultReport{
		Model: "ORDER",
		Steps: []domain.StepResult{
			{
				StepID:          "pay",
				TransitionError: "POST /charge failed: token=s3cr3t rejected",
				Validations: []domain.ValidationResult{
					{Name: "settled", Error: "lookup with token=abc123 timed out"},
				},
			},
		},
	}

	require.NoError(t, store.Save(context.Background(), "run", report))

	archived := inner.saved["run"]
	assert.Equal(t, "POST /charge failed: *** rejected", archived.Steps[0].TransitionError)
	assert.Equal(t, "lookup with *** timed out", archived.Steps[0].Validations[0].Error)

	// The caller's report is untouched.
	assert.Contains(t, report.Steps[0].TransitionError, "s3cr3t")
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	inner := newMockStore()
	store := middleware.NewLoggingMiddleware(slogt.New(t))(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run", &domain.ResultReport{Model: "ORDER", Passed: true}))

	loaded, err := store.Load(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, "ORDER", loaded.Model)

	require.NoError(t, store.Delete(ctx, "run"))
	_, err = store.Load(ctx, "run")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestChain_OrdersMiddlewares(t *testing.T) {
	inner := newMockStore()
	store := middleware.Chain(inner,
		middleware.NewLoggingMiddleware(slogt.New(t)),
		middleware.NewRedactMiddleware([]string{`secret`}),
	)

	report := &domain.ResultReport{
		Steps: []domain.StepResult{{TransitionError: "secret leaked"}},
	}
	require.NoError(t, store.Save(context.Background(), "run", report))
	assert.Equal(t, "*** leaked", inner.saved["run"].Steps[0].TransitionError)
}
