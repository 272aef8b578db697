package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum. Transitions are one-directional except the single
// trial -> draft revert; final is terminal.
type RunStatus string

const (
	RunStatusDraft RunStatus = "draft"
	RunStatusTrial RunStatus = "trial"
	RunStatusFinal RunStatus = "final"
)

// CanTransition reports whether moving from s to target is a legal workflow
// edge.
func (s RunStatus) CanTransition(target RunStatus) bool {
	switch s {
	case RunStatusDraft:
		return target == RunStatusTrial
	case RunStatusTrial:
		return target == RunStatusDraft || target == RunStatusFinal
	case RunStatusFinal:
		return false
	}
	return false
}

// PayrollRun drives the Draft -> Trial -> Final lifecycle. PayrollNumber is
// assigned only at finalize; IsLocked is true only when final.
type PayrollRun struct {
	ID              string
	CompanyID       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	RunDate         time.Time
	Status          RunStatus
	PayrollNumber   *string
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	IsLocked        bool
	TrialRunAt      *time.Time
	TrialRunBy      *string
	FinalizedAt     *time.Time
	FinalizedBy     *string
	GLJournalID     *string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []PayrollItem
}

// PayrollItem is the per-employee snapshot of every computed figure for one
// run. Immutable once the owning run leaves draft, except full recomputation
// on an explicit draft edit.
type PayrollItem struct {
	ID                 string
	PayrollRunID       string
	EmployeeID         string
	EmployeeName       string
	BasicSalary        decimal.Decimal
	HousingAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	OtherAllowance     decimal.Decimal
	AdditionalEarnings decimal.Decimal
	GrossSalary        decimal.Decimal
	Paye               decimal.Decimal
	NapsaEmployee      decimal.Decimal
	NapsaEmployer      decimal.Decimal
	NhimaEmployee      decimal.Decimal
	NhimaEmployer      decimal.Decimal
	PensionEmployee    decimal.Decimal
	PensionEmployer    decimal.Decimal
	WithholdingTax     decimal.Decimal
	AdvancesDeducted   decimal.Decimal
	TotalDeductions    decimal.Decimal
	NetSalary          decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Advances consumed by this item, applied against balances only when the
	// run is finalized.
	AdvanceCharges []AdvanceCharge
}

// AdvanceCharge records how much of one advance a payroll item recovers.
type AdvanceCharge struct {
	AdvanceID string
	Amount    decimal.Decimal
}

// AdditionType enum
type AdditionType string

const (
	AdditionEarning  AdditionType = "earning"
	AdditionBonus    AdditionType = "bonus"
	AdditionOvertime AdditionType = "overtime"
	AdditionAdvance  AdditionType = "advance"
)

// PayrollAddition is an ad-hoc entry attached to one draft run and consumed
// at computation time. For type advance the run the addition is created in
// does not deduct it; recovery starts with the next qualifying run.
type PayrollAddition struct {
	ID           string
	PayrollRunID string
	CompanyID    string
	EmployeeID   string
	Type         AdditionType
	Name         string
	Amount       decimal.Decimal
	HourlyRate   *decimal.Decimal
	HoursWorked  *decimal.Decimal
	TotalAmount  *decimal.Decimal
	MonthsToPay  *int
	CreatedAt    time.Time
}
