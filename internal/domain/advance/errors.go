package advance

import "errors"

var (
	ErrAdvanceNotFound       = errors.New("advance not found")
	ErrAdvanceAlreadySettled = errors.New("advance balance already settled by a concurrent run")
	ErrInvalidDeduction      = errors.New("deduction amount must be positive")
)
