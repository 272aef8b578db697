package advance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AdvanceRepository interface {
	Create(ctx context.Context, adv Advance) (Advance, error)
	GetByID(ctx context.Context, id string, companyID string) (Advance, error)
	GetOutstandingByEmployee(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]Advance, error)
	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]Advance, error)

	// ApplyDeduction performs an atomic decrement-if-sufficient update on
	// RemainingBalance and flips Status to partial or completed. It returns
	// ErrAdvanceAlreadySettled when the guarded update matches no row, which
	// means a concurrent run consumed the balance first.
	ApplyDeduction(ctx context.Context, id string, companyID string, amount decimal.Decimal) (Advance, error)
}
