package advance

import (
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/validator"
)

type CreateAdvanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	MonthsToRepay int             `json:"months_to_repay"`
	DateToDeduct  string          `json:"date_to_deduct"` // YYYY-MM-DD
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if r.MonthsToRepay < 1 {
		errs = append(errs, validator.ValidationError{Field: "months_to_repay", Message: "must be 1 or greater"})
	}
	if r.DateToDeduct != "" {
		if _, ok := validator.IsValidDate(r.DateToDeduct); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_to_deduct", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Amount           decimal.Decimal `json:"amount"`
	MonthsToRepay    int             `json:"months_to_repay"`
	MonthlyDeduction decimal.Decimal `json:"monthly_deduction"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	DateToDeduct     string          `json:"date_to_deduct"`
}
