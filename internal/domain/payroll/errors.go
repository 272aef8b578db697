package payroll

import "errors"

var (
	ErrRunNotFound        = errors.New("payroll run not found")
	ErrRunLocked          = errors.New("payroll run is finalized and locked")
	ErrInvalidTransition  = errors.New("payroll run is not in the required status for this transition")
	ErrNoActiveEmployees  = errors.New("company has no active employees to run payroll for")
	ErrAdditionNotFound   = errors.New("payroll addition not found")
	ErrRunPeriodInvalid   = errors.New("payroll period must fall within a single financial period")
	ErrPayrollNumberTaken = errors.New("payroll number already assigned")
)
