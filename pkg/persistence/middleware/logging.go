package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ReportStore
	logger *slog.Logger
}

// NewLoggingMiddleware creates a middleware that logs every store operation
// with its duration.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ReportStore) ports.ReportStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, runID string, report *domain.ResultReport) error {
	start := time.Now()
	err := m.next.Save(ctx, runID, report)
	if err != nil {
		m.logger.Error("report save failed", "run_id", runID, "error", err)
		return err
	}
	m.logger.Debug("report saved", "run_id", runID, "passed", report.Passed, "took", time.Since(start))
	return nil
}

func (m *loggingMiddleware) Load(ctx context.Context, runID string) (*domain.ResultReport, error) {
	report, err := m.next.Load(ctx, runID)
	if err != nil {
		m.logger.Debug("report load failed", "run_id", runID, "error", err)
		return nil, err
	}
	return report, nil
}

func (m *loggingMiddleware) Delete(ctx context.Context, runID string) error {
	err := m.next.Delete(ctx, runID)
	if err != nil {
		m.logger.Error("report delete failed", "run_id", runID, "error", err)
		return err
	}
	m.logger.Debug("report deleted", "run_id", runID)
	return nil
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
