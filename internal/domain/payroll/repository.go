package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll runs, items and
// additions. All methods include companyID to prevent cross-company data
// access. Status transitions are guarded: the update applies only when the
// stored status equals the expected source state, so a run can never be
// finalized twice.
type PayrollRepository interface {
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, int64, error)

	// ReplaceItems swaps the run's item snapshot wholesale; only legal while
	// the run is draft or mid trial recomputation.
	ReplaceItems(ctx context.Context, runID string, companyID string, items []PayrollItem, totals RunTotals) error

	// MarkTrial performs the guarded draft -> trial transition and stamps the
	// trial audit fields.
	MarkTrial(ctx context.Context, runID string, companyID string, by string, at time.Time) (PayrollRun, error)

	// RevertToDraft performs the guarded trial -> draft transition and clears
	// the trial stamps.
	RevertToDraft(ctx context.Context, runID string, companyID string) (PayrollRun, error)

	// MarkFinal performs the guarded trial -> final transition, assigns the
	// payroll number and journal reference, and locks the run.
	MarkFinal(ctx context.Context, runID string, companyID string, payrollNumber string, journalID string, by string, at time.Time) (PayrollRun, error)

	// NextPayrollNumber allocates the next sequential payroll number for the
	// company and year.
	NextPayrollNumber(ctx context.Context, companyID string, year int) (string, error)

	// Additions
	AddAddition(ctx context.Context, add PayrollAddition) (PayrollAddition, error)
	RemoveAddition(ctx context.Context, id string, runID string, companyID string) error
	GetAdditionsByRun(ctx context.Context, runID string, companyID string) ([]PayrollAddition, error)
	DeleteAdditionsByRun(ctx context.Context, runID string, companyID string) error
}
