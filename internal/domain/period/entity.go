package period

import "time"

// FinancialPeriod is a bounded date range that is either open (editable) or
// closed (immutable to new or changed entries).
type FinancialPeriod struct {
	ID        string
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsClosed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether d falls within the period, inclusive of both ends.
func (p FinancialPeriod) Covers(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
