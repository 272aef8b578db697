package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func testRegistry() taxrate.Registry {
	return taxrate.Registry{
		CompanyID: "c1",
		Bands: []taxrate.TaxBand{
			{BandOrder: 1, MinAmount: d("0"), MaxAmount: dp("5100"), Rate: d("0")},
			{BandOrder: 2, MinAmount: d("5100"), MaxAmount: dp("7100"), Rate: d("0.20")},
			{BandOrder: 3, MinAmount: d("7100"), MaxAmount: dp("9200"), Rate: d("0.30")},
			{BandOrder: 4, MinAmount: d("9200"), MaxAmount: nil, Rate: d("0.37")},
		},
		Rates: map[taxrate.StatutoryType]taxrate.StatutoryRate{
			taxrate.StatutoryNapsa: {
				Type:         taxrate.StatutoryNapsa,
				EmployeeRate: d("0.05"), EmployerRate: d("0.05"),
				EmployeeBase: taxrate.BaseBasic, EmployerBase: taxrate.BaseBasic,
				CapAmount: dp("1342"),
			},
			taxrate.StatutoryNhima: {
				Type:         taxrate.StatutoryNhima,
				EmployeeRate: d("0.01"), EmployerRate: d("0.01"),
				EmployeeBase: taxrate.BaseBasic, EmployerBase: taxrate.BaseBasic,
				CapAmount: dp("250"),
			},
			taxrate.StatutoryWhtLocal: {
				Type:         taxrate.StatutoryWhtLocal,
				EmployeeRate: d("0.15"),
			},
			taxrate.StatutoryWhtNonResident: {
				Type:         taxrate.StatutoryWhtNonResident,
				EmployeeRate: d("0.20"),
			},
		},
	}
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:          "e1",
		CompanyID:   "c1",
		FullName:    "Jane Banda",
		BasicSalary: d("6000"),
		ApplyPaye:   true,
		ApplyNapsa:  true,
		ApplyNhima:  true,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: got %s, want %s", label, got, want)
}

func TestComputeRegularEmployee(t *testing.T) {
	calc := NewCalculator()

	item, err := calc.Compute(ComputeInput{
		Employee: testEmployee(),
		Registry: testRegistry(),
	})
	require.NoError(t, err)

	assertDecimal(t, "6000", item.GrossSalary, "gross")
	assertDecimal(t, "180", item.Paye, "paye")
	assertDecimal(t, "300", item.NapsaEmployee, "napsa employee")
	assertDecimal(t, "300", item.NapsaEmployer, "napsa employer")
	assertDecimal(t, "60", item.NhimaEmployee, "nhima employee")
	assertDecimal(t, "60", item.NhimaEmployer, "nhima employer")
	assertDecimal(t, "540", item.TotalDeductions, "total deductions")
	assertDecimal(t, "5460", item.NetSalary, "net")

	// Employer contributions never reduce the employee's net.
	assert.True(t, item.NetSalary.Equal(item.GrossSalary.Sub(item.TotalDeductions)))
}

func TestComputeProgressiveBands(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.BasicSalary = d("12000")
	emp.ApplyNapsa = false
	emp.ApplyNhima = false

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)

	// 2000*0.20 + 2100*0.30 + 2800*0.37 = 400 + 630 + 1036
	assertDecimal(t, "2066", item.Paye, "paye")
}

func TestComputeBelowFirstThreshold(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.BasicSalary = d("4000")
	emp.ApplyNapsa = false
	emp.ApplyNhima = false

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)
	assert.True(t, item.Paye.IsZero())
}

func TestComputeStatutoryCaps(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.BasicSalary = d("30000")

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)

	// 5% of 30000 = 1500, capped at 1342; both sides independently.
	assertDecimal(t, "1342", item.NapsaEmployee, "napsa employee capped")
	assertDecimal(t, "1342", item.NapsaEmployer, "napsa employer capped")
	// 1% of 30000 = 300, capped at 250.
	assertDecimal(t, "250", item.NhimaEmployee, "nhima employee capped")
}

func TestComputeEmployerBaseGross(t *testing.T) {
	calc := NewCalculator()

	registry := testRegistry()
	napsa := registry.Rates[taxrate.StatutoryNapsa]
	napsa.EmployerBase = taxrate.BaseGross
	napsa.CapAmount = nil
	registry.Rates[taxrate.StatutoryNapsa] = napsa

	emp := testEmployee()
	emp.HousingAllowance = d("2000")
	emp.ApplyPaye = false
	emp.ApplyNhima = false

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: registry})
	require.NoError(t, err)

	// Employee side stays on basic, employer side follows gross.
	assertDecimal(t, "300", item.NapsaEmployee, "napsa employee on basic")
	assertDecimal(t, "400", item.NapsaEmployer, "napsa employer on gross")
}

func TestComputeConsultantWithholding(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.IsConsultant = true
	emp.ConsultantType = employee.ConsultantLocal
	emp.ApplyWht = true
	emp.PensionEnabled = true

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)

	// WHT is a final tax: everything else is zero even when flags are set.
	assertDecimal(t, "900", item.WithholdingTax, "wht 15% of gross")
	assert.True(t, item.Paye.IsZero())
	assert.True(t, item.NapsaEmployee.IsZero())
	assert.True(t, item.NhimaEmployee.IsZero())
	assert.True(t, item.PensionEmployee.IsZero())
	assertDecimal(t, "5100", item.NetSalary, "net after wht")
}

func TestComputeNonResidentConsultantRate(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.IsConsultant = true
	emp.ConsultantType = employee.ConsultantNonResident
	emp.ApplyWht = true

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)
	assertDecimal(t, "1200", item.WithholdingTax, "wht 20% of gross")
}

func TestComputeConsultantWithoutWhtMayGetPension(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.IsConsultant = true
	emp.ApplyWht = false
	emp.PensionEnabled = true
	emp.PensionEmployeeRate = dp("0.05")
	emp.PensionEmployerRate = dp("0.05")

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)
	assertDecimal(t, "300", item.PensionEmployee, "pension employee")
	assertDecimal(t, "300", item.PensionEmployer, "pension employer")
	assert.True(t, item.WithholdingTax.IsZero())
}

func TestComputePensionOverridesRegistry(t *testing.T) {
	calc := NewCalculator()

	registry := testRegistry()
	registry.Rates[taxrate.StatutoryPension] = taxrate.StatutoryRate{
		Type:         taxrate.StatutoryPension,
		EmployeeRate: d("0.03"), EmployerRate: d("0.06"),
	}

	emp := testEmployee()
	emp.ApplyPaye = false
	emp.ApplyNapsa = false
	emp.ApplyNhima = false
	emp.PensionEnabled = true
	emp.PensionEmployeeRate = dp("0.10")

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: registry})
	require.NoError(t, err)

	// Employee side overridden, employer side from the registry row.
	assertDecimal(t, "600", item.PensionEmployee, "pension employee override")
	assertDecimal(t, "360", item.PensionEmployer, "pension employer registry")
}

func TestComputeAdditionalEarningsRaisePaye(t *testing.T) {
	calc := NewCalculator()

	base, err := calc.Compute(ComputeInput{Employee: testEmployee(), Registry: testRegistry()})
	require.NoError(t, err)

	raised, err := calc.Compute(ComputeInput{
		Employee:           testEmployee(),
		Registry:           testRegistry(),
		AdditionalEarnings: d("1500"),
	})
	require.NoError(t, err)

	assertDecimal(t, "7500", raised.GrossSalary, "gross with earnings")
	// 2000*0.20 + 400*0.30 = 520
	assertDecimal(t, "520", raised.Paye, "paye on raised gross")
	assert.True(t, raised.Paye.GreaterThan(base.Paye))
	assert.True(t, raised.NetSalary.GreaterThan(base.NetSalary))
}

func TestComputeAdvanceChargesReduceNetOnly(t *testing.T) {
	calc := NewCalculator()

	charges := []payroll.AdvanceCharge{
		{AdvanceID: "a1", Amount: d("1000")},
		{AdvanceID: "a2", Amount: d("500")},
	}

	item, err := calc.Compute(ComputeInput{
		Employee:       testEmployee(),
		Registry:       testRegistry(),
		AdvanceCharges: charges,
	})
	require.NoError(t, err)

	assertDecimal(t, "1500", item.AdvancesDeducted, "advances deducted")
	// Statutory figures are unchanged by advance recovery.
	assertDecimal(t, "180", item.Paye, "paye")
	assertDecimal(t, "2040", item.TotalDeductions, "total deductions")
	assertDecimal(t, "3960", item.NetSalary, "net after advances")
	assert.Equal(t, charges, item.AdvanceCharges)
}

func TestComputeRejectsInvalidRegistry(t *testing.T) {
	calc := NewCalculator()

	registry := testRegistry()
	registry.Bands = registry.Bands[:2]

	_, err := calc.Compute(ComputeInput{Employee: testEmployee(), Registry: registry})
	assert.ErrorIs(t, err, taxrate.ErrInvalidConfiguration)
}

func TestComputeRejectsNegativeGross(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.OtherAllowance = d("-10000")

	_, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	assert.ErrorIs(t, err, taxrate.ErrInvalidConfiguration)
}

func TestComputeZeroGross(t *testing.T) {
	calc := NewCalculator()

	emp := testEmployee()
	emp.BasicSalary = decimal.Zero

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: testRegistry()})
	require.NoError(t, err)
	assert.True(t, item.Paye.IsZero())
	assert.True(t, item.NetSalary.IsZero())
}

func TestComputeHalfCentComponentsStayConsistent(t *testing.T) {
	calc := NewCalculator()

	// 0.30 * (100.10 - 66.75) = 10.005 and 0.05 * 100.10 = 5.005 both land
	// on half cents; the stored totals must be exact sums of the stored
	// per-component figures or downstream ledger postings cannot balance.
	registry := taxrate.Registry{
		CompanyID: "c1",
		Bands: []taxrate.TaxBand{
			{BandOrder: 1, MinAmount: d("0"), MaxAmount: dp("66.75"), Rate: d("0")},
			{BandOrder: 2, MinAmount: d("66.75"), MaxAmount: nil, Rate: d("0.30")},
		},
		Rates: map[taxrate.StatutoryType]taxrate.StatutoryRate{
			taxrate.StatutoryNapsa: {
				Type:         taxrate.StatutoryNapsa,
				EmployeeRate: d("0.05"), EmployerRate: d("0.05"),
				EmployeeBase: taxrate.BaseBasic, EmployerBase: taxrate.BaseBasic,
			},
		},
	}

	emp := testEmployee()
	emp.BasicSalary = d("100.10")
	emp.ApplyNhima = false

	item, err := calc.Compute(ComputeInput{Employee: emp, Registry: registry})
	require.NoError(t, err)

	assertDecimal(t, "10.01", item.Paye, "paye")
	assertDecimal(t, "5.01", item.NapsaEmployee, "napsa employee")
	assertDecimal(t, "5.01", item.NapsaEmployer, "napsa employer")
	assertDecimal(t, "15.02", item.TotalDeductions, "total deductions")
	assertDecimal(t, "85.08", item.NetSalary, "net salary")

	componentSum := item.Paye.
		Add(item.NapsaEmployee).
		Add(item.NhimaEmployee).
		Add(item.PensionEmployee).
		Add(item.WithholdingTax).
		Add(item.AdvancesDeducted)
	assert.True(t, item.TotalDeductions.Equal(componentSum))
	assert.True(t, item.GrossSalary.Equal(item.TotalDeductions.Add(item.NetSalary)))
}
