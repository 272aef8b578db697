package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/validator"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	PeriodStart string   `json:"period_start"` // YYYY-MM-DD
	PeriodEnd   string   `json:"period_end"`
	RunDate     string   `json:"run_date,omitempty"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not precede period_start"})
	}
	if r.RunDate != "" {
		if _, ok := validator.IsValidDate(r.RunDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "run_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunTotals struct {
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

type RunFilter struct {
	Status    *string `json:"status,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

type RunResponse struct {
	ID              string          `json:"id"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	RunDate         string          `json:"run_date"`
	Status          string          `json:"status"`
	PayrollNumber   *string         `json:"payroll_number,omitempty"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	IsLocked        bool            `json:"is_locked"`
	TrialRunAt      *string         `json:"trial_run_at,omitempty"`
	TrialRunBy      *string         `json:"trial_run_by,omitempty"`
	FinalizedAt     *string         `json:"finalized_at,omitempty"`
	FinalizedBy     *string         `json:"finalized_by,omitempty"`
	GLJournalID     *string         `json:"gl_journal_id,omitempty"`
	Items           []ItemResponse  `json:"items,omitempty"`
}

type ItemResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	HousingAllowance   decimal.Decimal `json:"housing_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	OtherAllowance     decimal.Decimal `json:"other_allowance"`
	AdditionalEarnings decimal.Decimal `json:"additional_earnings"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	Paye               decimal.Decimal `json:"paye"`
	NapsaEmployee      decimal.Decimal `json:"napsa_employee"`
	NapsaEmployer      decimal.Decimal `json:"napsa_employer"`
	NhimaEmployee      decimal.Decimal `json:"nhima_employee"`
	NhimaEmployer      decimal.Decimal `json:"nhima_employer"`
	PensionEmployee    decimal.Decimal `json:"pension_employee"`
	PensionEmployer    decimal.Decimal `json:"pension_employer"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`
	AdvancesDeducted   decimal.Decimal `json:"advances_deducted"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	NetSalary          decimal.Decimal `json:"net_salary"`
}

type ListRunsResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// ========== ADDITION DTOs ==========

type AddAdditionRequest struct {
	EmployeeID  string           `json:"employee_id"`
	Type        string           `json:"type"` // earning, bonus, overtime, advance
	Name        string           `json:"name"`
	Amount      decimal.Decimal  `json:"amount"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursWorked *decimal.Decimal `json:"hours_worked,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	MonthsToPay *int             `json:"months_to_pay,omitempty"`
}

func (r *AddAdditionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Name == "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	switch AdditionType(r.Type) {
	case AdditionEarning, AdditionBonus:
		if !r.Amount.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
		}
	case AdditionOvertime:
		if r.HourlyRate == nil || !r.HourlyRate.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive for overtime"})
		}
		if r.HoursWorked == nil || !r.HoursWorked.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "must be positive for overtime"})
		}
	case AdditionAdvance:
		if r.TotalAmount == nil || !r.TotalAmount.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be positive for advance"})
		}
		if r.MonthsToPay != nil && *r.MonthsToPay < 1 {
			errs = append(errs, validator.ValidationError{Field: "months_to_pay", Message: "must be 1 or greater"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'earning', 'bonus', 'overtime' or 'advance'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdditionResponse struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employee_id"`
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	Amount      decimal.Decimal  `json:"amount"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursWorked *decimal.Decimal `json:"hours_worked,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	MonthsToPay *int             `json:"months_to_pay,omitempty"`
}
