package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
)

// Calculator is the pure computation module: employee inputs plus the active
// rate registry in, a deterministic PayrollItem out. No repository access,
// no hidden state.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeInput carries everything one employee's computation needs. The
// advance charges are resolved by the advance service before computation and
// applied against balances only at finalize.
type ComputeInput struct {
	Employee           employee.Employee
	Registry           taxrate.Registry
	AdditionalEarnings decimal.Decimal
	AdvanceCharges     []payroll.AdvanceCharge
}

// Compute produces the full statutory breakdown for one employee.
//
// Consultants with withholding tax enabled pay WHT as a final tax; PAYE,
// NAPSA, NHIMA and pension are all zero in that case.
func (c *Calculator) Compute(in ComputeInput) (payroll.PayrollItem, error) {
	if err := in.Registry.Validate(); err != nil {
		return payroll.PayrollItem{}, err
	}

	emp := in.Employee
	gross := emp.BasicSalary.
		Add(emp.HousingAllowance).
		Add(emp.TransportAllowance).
		Add(emp.OtherAllowance).
		Add(in.AdditionalEarnings)

	if gross.IsNegative() {
		return payroll.PayrollItem{}, fmt.Errorf("%w: gross salary is negative for employee %s", taxrate.ErrInvalidConfiguration, emp.ID)
	}

	advancesDeducted := decimal.Zero
	for _, charge := range in.AdvanceCharges {
		advancesDeducted = advancesDeducted.Add(charge.Amount)
	}

	item := payroll.PayrollItem{
		EmployeeID:         emp.ID,
		EmployeeName:       emp.FullName,
		BasicSalary:        emp.BasicSalary,
		HousingAllowance:   emp.HousingAllowance,
		TransportAllowance: emp.TransportAllowance,
		OtherAllowance:     emp.OtherAllowance,
		AdditionalEarnings: in.AdditionalEarnings,
		GrossSalary:        gross,
		Paye:               decimal.Zero,
		NapsaEmployee:      decimal.Zero,
		NapsaEmployer:      decimal.Zero,
		NhimaEmployee:      decimal.Zero,
		NhimaEmployer:      decimal.Zero,
		PensionEmployee:    decimal.Zero,
		PensionEmployer:    decimal.Zero,
		WithholdingTax:     decimal.Zero,
		AdvancesDeducted:   advancesDeducted,
		AdvanceCharges:     in.AdvanceCharges,
	}

	if emp.IsConsultant {
		if emp.ApplyWht {
			item.WithholdingTax = c.withholdingTax(emp, in.Registry, gross)
		} else if emp.PensionEnabled {
			item.PensionEmployee, item.PensionEmployer = c.pension(emp, in.Registry)
		}
	} else {
		if emp.ApplyPaye {
			item.Paye = c.payeOn(gross, in.Registry.SortedBands())
		}
		if emp.ApplyNapsa {
			item.NapsaEmployee, item.NapsaEmployer = c.statutorySplit(emp, in.Registry, taxrate.StatutoryNapsa, gross)
		}
		if emp.ApplyNhima {
			item.NhimaEmployee, item.NhimaEmployer = c.statutorySplit(emp, in.Registry, taxrate.StatutoryNhima, gross)
		}
		if emp.PensionEnabled {
			item.PensionEmployee, item.PensionEmployer = c.pension(emp, in.Registry)
		}
	}

	// Round every component before summing so the stored totals are exact
	// sums of the stored components; the ledger posting re-derives both
	// sides from these figures and must balance to the cent.
	item.Paye = item.Paye.Round(2)
	item.NapsaEmployee = item.NapsaEmployee.Round(2)
	item.NapsaEmployer = item.NapsaEmployer.Round(2)
	item.NhimaEmployee = item.NhimaEmployee.Round(2)
	item.NhimaEmployer = item.NhimaEmployer.Round(2)
	item.PensionEmployee = item.PensionEmployee.Round(2)
	item.PensionEmployer = item.PensionEmployer.Round(2)
	item.WithholdingTax = item.WithholdingTax.Round(2)
	item.TotalDeductions = item.Paye.
		Add(item.NapsaEmployee).
		Add(item.NhimaEmployee).
		Add(item.PensionEmployee).
		Add(item.WithholdingTax).
		Add(item.AdvancesDeducted)
	item.NetSalary = gross.Sub(item.TotalDeductions)

	return item, nil
}

// payeOn computes progressive marginal tax over the sorted band set: each
// band taxes the slice of gross falling inside its range at its own rate.
func (c *Calculator) payeOn(gross decimal.Decimal, bands []taxrate.TaxBand) decimal.Decimal {
	tax := decimal.Zero
	for _, band := range bands {
		if gross.LessThanOrEqual(band.MinAmount) {
			break
		}
		upper := gross
		if band.MaxAmount != nil && band.MaxAmount.LessThan(gross) {
			upper = *band.MaxAmount
		}
		taxable := upper.Sub(band.MinAmount)
		if taxable.IsPositive() {
			tax = tax.Add(taxable.Mul(band.Rate))
		}
	}
	return tax
}

// statutorySplit computes employee and employer contributions for a capped
// percentage-of-salary scheme. Each side uses its own configured reference
// base and is capped independently.
func (c *Calculator) statutorySplit(emp employee.Employee, registry taxrate.Registry, t taxrate.StatutoryType, gross decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	rate, ok := registry.Rate(t)
	if !ok {
		return decimal.Zero, decimal.Zero
	}

	employeeContribution := rate.EmployeeRate.Mul(c.referenceBase(rate.EmployeeBase, emp.BasicSalary, gross))
	employerContribution := rate.EmployerRate.Mul(c.referenceBase(rate.EmployerBase, emp.BasicSalary, gross))

	return capAt(employeeContribution, rate.CapAmount), capAt(employerContribution, rate.CapAmount)
}

// pension is uncapped unless a cap is configured; per-employee override
// rates take precedence over the registry row.
func (c *Calculator) pension(emp employee.Employee, registry taxrate.Registry) (decimal.Decimal, decimal.Decimal) {
	rate, ok := registry.Rate(taxrate.StatutoryPension)

	employeeRate := decimal.Zero
	employerRate := decimal.Zero
	var cap *decimal.Decimal
	if ok {
		employeeRate = rate.EmployeeRate
		employerRate = rate.EmployerRate
		cap = rate.CapAmount
	}
	if emp.PensionEmployeeRate != nil {
		employeeRate = *emp.PensionEmployeeRate
	}
	if emp.PensionEmployerRate != nil {
		employerRate = *emp.PensionEmployerRate
	}

	return capAt(employeeRate.Mul(emp.BasicSalary), cap), capAt(employerRate.Mul(emp.BasicSalary), cap)
}

// withholdingTax is a flat final tax on gross for consultants; the rate row
// depends on residency.
func (c *Calculator) withholdingTax(emp employee.Employee, registry taxrate.Registry, gross decimal.Decimal) decimal.Decimal {
	t := taxrate.StatutoryWhtLocal
	if emp.ConsultantType == employee.ConsultantNonResident {
		t = taxrate.StatutoryWhtNonResident
	}

	rate, ok := registry.Rate(t)
	if !ok {
		return decimal.Zero
	}
	return rate.EmployeeRate.Mul(gross)
}

func (c *Calculator) referenceBase(base taxrate.ReferenceBase, basic, gross decimal.Decimal) decimal.Decimal {
	if base == taxrate.BaseGross {
		return gross
	}
	return basic
}

func capAt(v decimal.Decimal, cap *decimal.Decimal) decimal.Decimal {
	if cap != nil && v.GreaterThan(*cap) {
		return *cap
	}
	return v
}
