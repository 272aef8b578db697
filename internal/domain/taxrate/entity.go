package taxrate

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBand is one marginal PAYE band. Bands for a company partition [0, inf)
// when sorted by BandOrder; the top band has MaxAmount = nil.
type TaxBand struct {
	ID        string
	CompanyID string
	BandOrder int
	MinAmount decimal.Decimal
	MaxAmount *decimal.Decimal
	Rate      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatutoryType enum
type StatutoryType string

const (
	StatutoryNapsa          StatutoryType = "napsa"
	StatutoryNhima          StatutoryType = "nhima"
	StatutoryPension        StatutoryType = "pension"
	StatutoryWhtLocal       StatutoryType = "wht_local"
	StatutoryWhtNonResident StatutoryType = "wht_nonresident"
)

// ReferenceBase selects which salary figure a statutory contribution is
// computed from. Employee and employer sides are configured independently.
type ReferenceBase string

const (
	BaseBasic ReferenceBase = "basic"
	BaseGross ReferenceBase = "gross"
)

// StatutoryRate - one active row per type per company.
type StatutoryRate struct {
	ID           string
	CompanyID    string
	Type         StatutoryType
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
	EmployeeBase ReferenceBase
	EmployerBase ReferenceBase
	CapAmount    *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registry is the active rate configuration for a company. It is an explicit
// value passed into every calculation call; callers own refresh.
type Registry struct {
	CompanyID string
	Bands     []TaxBand
	Rates     map[StatutoryType]StatutoryRate
}

// Rate returns the active statutory rate for the given type, if configured.
func (r Registry) Rate(t StatutoryType) (StatutoryRate, bool) {
	rate, ok := r.Rates[t]
	return rate, ok
}
