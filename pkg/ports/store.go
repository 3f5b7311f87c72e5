package ports

import (
	"context"

	"github.com/rsmiech/flowrunner/pkg/domain"
)

// ReportStore defines the interface for archiving run reports. It lets a run
// outlive the process that produced it, so results can be inspected, diffed
// and aggregated later.
type ReportStore interface {
	// Save persists the report under the given run ID, replacing any
	// previous report with that ID.
	Save(ctx context.Context, runID string, report *domain.ResultReport) error

	// Load retrieves the report for a given run ID.
	// Returns domain.ErrReportNotFound if no such report exists.
	Load(ctx context.Context, runID string) (*domain.ResultReport, error)

	// Delete removes the report for a given run ID. Deleting an absent
	// report is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored reports.
	List(ctx context.Context) ([]string, error)
}
