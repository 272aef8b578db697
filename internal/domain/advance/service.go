package advance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Deduction is one advance's share of a run's total advance recovery.
type Deduction struct {
	AdvanceID string
	Amount    decimal.Decimal
}

// Service is the advance ledger: it selects what each outstanding advance is
// owed for a run and applies balance mutations when a run is finalized.
type Service interface {
	// HTTP-facing operations; company and actor come from context claims.
	CreateAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AdvanceResponse, error)

	// Engine-facing operations, called by the payroll workflow with an
	// explicit company scope (and, at finalize, a transactional context).
	DueDeductions(ctx context.Context, companyID string, employeeID string, periodEnd time.Time) (decimal.Decimal, []Deduction, error)
	ApplyDeduction(ctx context.Context, companyID string, advanceID string, amount decimal.Decimal) (Advance, error)
	CreateResolved(ctx context.Context, adv Advance) (Advance, error)
}
