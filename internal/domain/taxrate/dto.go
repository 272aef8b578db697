package taxrate

import (
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/validator"
)

type TaxBandInput struct {
	BandOrder int              `json:"band_order"`
	MinAmount decimal.Decimal  `json:"min_amount"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Rate      decimal.Decimal  `json:"rate"`
}

type ReplaceBandsRequest struct {
	Bands []TaxBandInput `json:"bands"`
}

func (r *ReplaceBandsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Bands) == 0 {
		errs = append(errs, validator.ValidationError{Field: "bands", Message: "at least one band is required"})
	}
	for _, b := range r.Bands {
		if b.BandOrder < 1 {
			errs = append(errs, validator.ValidationError{Field: "band_order", Message: "must be 1 or greater"})
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be between 0 and 1"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpsertRateRequest struct {
	Type         string           `json:"type"`
	EmployeeRate decimal.Decimal  `json:"employee_rate"`
	EmployerRate decimal.Decimal  `json:"employer_rate"`
	EmployeeBase string           `json:"employee_base"`
	EmployerBase string           `json:"employer_base"`
	CapAmount    *decimal.Decimal `json:"cap_amount,omitempty"`
}

func (r *UpsertRateRequest) Validate() error {
	var errs validator.ValidationErrors

	switch StatutoryType(r.Type) {
	case StatutoryNapsa, StatutoryNhima, StatutoryPension, StatutoryWhtLocal, StatutoryWhtNonResident:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "unknown statutory type"})
	}
	if r.EmployeeRate.IsNegative() || r.EmployeeRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "employee_rate", Message: "must be between 0 and 1"})
	}
	if r.EmployerRate.IsNegative() || r.EmployerRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "employer_rate", Message: "must be between 0 and 1"})
	}
	if r.EmployeeBase != "" && r.EmployeeBase != string(BaseBasic) && r.EmployeeBase != string(BaseGross) {
		errs = append(errs, validator.ValidationError{Field: "employee_base", Message: "must be 'basic' or 'gross'"})
	}
	if r.EmployerBase != "" && r.EmployerBase != string(BaseBasic) && r.EmployerBase != string(BaseGross) {
		errs = append(errs, validator.ValidationError{Field: "employer_base", Message: "must be 'basic' or 'gross'"})
	}
	if r.CapAmount != nil && r.CapAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "cap_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RegistryResponse struct {
	CompanyID string                  `json:"company_id"`
	Bands     []TaxBandResponse       `json:"bands"`
	Rates     []StatutoryRateResponse `json:"rates"`
}

type TaxBandResponse struct {
	ID        string           `json:"id"`
	BandOrder int              `json:"band_order"`
	MinAmount decimal.Decimal  `json:"min_amount"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Rate      decimal.Decimal  `json:"rate"`
}

type StatutoryRateResponse struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	EmployeeRate decimal.Decimal  `json:"employee_rate"`
	EmployerRate decimal.Decimal  `json:"employer_rate"`
	EmployeeBase string           `json:"employee_base"`
	EmployerBase string           `json:"employer_base"`
	CapAmount    *decimal.Decimal `json:"cap_amount,omitempty"`
}
