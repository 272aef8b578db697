package period

import "errors"

var (
	ErrClosedPeriod   = errors.New("financial period is closed or missing for this date")
	ErrPeriodNotFound = errors.New("financial period not found")
)
