package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is consumed by the payroll engine and owned by the personnel
// module. The repository boundary maps store records into this shape so the
// calculation engine never performs ad-hoc field lookups.
type Employee struct {
	ID                  string
	CompanyID           string
	FullName            string
	BasicSalary         decimal.Decimal
	HousingAllowance    decimal.Decimal
	TransportAllowance  decimal.Decimal
	OtherAllowance      decimal.Decimal
	IsConsultant        bool
	ConsultantType      ConsultantType
	ApplyPaye           bool
	ApplyNapsa          bool
	ApplyNhima          bool
	ApplyWht            bool
	PensionEnabled      bool
	PensionEmployeeRate *decimal.Decimal
	PensionEmployerRate *decimal.Decimal
	EmploymentStatus    EmploymentStatus
	HireDate            time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type ConsultantType string

const (
	ConsultantLocal       ConsultantType = "local"
	ConsultantNonResident ConsultantType = "non_resident"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
