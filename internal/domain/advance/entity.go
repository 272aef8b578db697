package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusCompleted Status = "completed"
)

// Advance is a cash advance recovered through scheduled payroll deductions.
// RemainingBalance is mutated only through the conditional ApplyDeduction
// repository operation, and only when a run is finalized.
type Advance struct {
	ID               string
	CompanyID        string
	EmployeeID       string
	Amount           decimal.Decimal
	MonthsToRepay    int
	MonthlyDeduction decimal.Decimal
	RemainingBalance decimal.Decimal
	Status           Status
	DateToDeduct     time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Outstanding reports whether the advance still has balance to recover.
func (a Advance) Outstanding() bool {
	return a.Status == StatusPending || a.Status == StatusPartial
}

// DueAmount is the deduction owed for a run ending at periodEnd: the monthly
// installment, clamped so the last deduction never overshoots the balance.
func (a Advance) DueAmount(periodEnd time.Time) decimal.Decimal {
	if !a.Outstanding() || a.DateToDeduct.After(periodEnd) {
		return decimal.Zero
	}
	if a.RemainingBalance.LessThan(a.MonthlyDeduction) {
		return a.RemainingBalance
	}
	return a.MonthlyDeduction
}

// MonthlyInstallment computes the per-run deduction for a new advance.
// Rounded up to the whole currency unit so the schedule never extends past
// monthsToRepay.
func MonthlyInstallment(amount decimal.Decimal, monthsToRepay int) decimal.Decimal {
	if monthsToRepay < 1 {
		monthsToRepay = 1
	}
	return amount.Div(decimal.NewFromInt(int64(monthsToRepay))).Ceil()
}
