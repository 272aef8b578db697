package response

import (
	"errors"
	"net/http"

	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
	"github.com/zedbooks/accounting-backend-go/internal/domain/ledger"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
	"github.com/zedbooks/accounting-backend-go/internal/domain/period"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Tax configuration errors
	case errors.Is(err, taxrate.ErrInvalidConfiguration):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, taxrate.ErrRegistryNotFound):
		NotFound(w, "No tax configuration found for company")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Advance errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrAdvanceAlreadySettled):
		Conflict(w, "Advance balance already consumed")
	case errors.Is(err, advance.ErrInvalidDeduction):
		BadRequest(w, err.Error(), nil)

	// Period errors
	case errors.Is(err, period.ErrClosedPeriod):
		Conflict(w, "No open financial period covers the run dates")
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Financial period not found")

	// Payroll workflow errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrRunLocked):
		Conflict(w, "Payroll run is finalized and locked")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, "Payroll run is not in the required status")
	case errors.Is(err, payroll.ErrNoActiveEmployees):
		BadRequest(w, "No active employees to include in the run", nil)
	case errors.Is(err, payroll.ErrAdditionNotFound):
		NotFound(w, "Payroll addition not found")
	case errors.Is(err, payroll.ErrRunPeriodInvalid):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPayrollNumberTaken):
		Conflict(w, "Payroll number already assigned")

	// Ledger errors
	case errors.Is(err, ledger.ErrUnbalancedEntry):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, ledger.ErrEmptyEntry):
		BadRequest(w, "Journal entry has no lines", nil)
	case errors.Is(err, ledger.ErrInvalidLine):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, ledger.ErrEntryNotFound):
		NotFound(w, "Journal entry not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
