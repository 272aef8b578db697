package period

import (
	"context"
	"time"
)

type PeriodRepository interface {
	// GetOpenPeriodCovering returns the open financial period containing the
	// given date, or ErrClosedPeriod when no open period covers it.
	GetOpenPeriodCovering(ctx context.Context, companyID string, date time.Time) (FinancialPeriod, error)
}
