package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
)

// ResolvedAdditions is the outcome of consuming a draft run's additions
// basket: per-employee gross top-ups for this run, plus the advances to
// create when the run is finalized.
type ResolvedAdditions struct {
	GrossAdditions map[string]decimal.Decimal
	NewAdvances    []advance.Advance
}

// GrossFor returns the total ad-hoc earnings for one employee in this run.
func (r ResolvedAdditions) GrossFor(employeeID string) decimal.Decimal {
	if amount, ok := r.GrossAdditions[employeeID]; ok {
		return amount
	}
	return decimal.Zero
}

// ResolveAdditions folds the basket into calculation inputs. Earnings,
// bonuses and overtime raise gross for this run only; advance requests
// become Advance records due from the run after this one, so the creating
// run never deducts them.
func ResolveAdditions(additions []payroll.PayrollAddition, companyID string, periodEnd time.Time) ResolvedAdditions {
	resolved := ResolvedAdditions{
		GrossAdditions: make(map[string]decimal.Decimal),
	}

	for _, add := range additions {
		switch add.Type {
		case payroll.AdditionEarning, payroll.AdditionBonus, payroll.AdditionOvertime:
			current := resolved.GrossAdditions[add.EmployeeID]
			resolved.GrossAdditions[add.EmployeeID] = current.Add(add.Amount)

		case payroll.AdditionAdvance:
			months := 1
			if add.MonthsToPay != nil && *add.MonthsToPay > 0 {
				months = *add.MonthsToPay
			}
			total := add.Amount
			if add.TotalAmount != nil {
				total = *add.TotalAmount
			}

			resolved.NewAdvances = append(resolved.NewAdvances, advance.Advance{
				CompanyID:        companyID,
				EmployeeID:       add.EmployeeID,
				Amount:           total,
				MonthsToRepay:    months,
				MonthlyDeduction: advance.MonthlyInstallment(total, months),
				RemainingBalance: total,
				Status:           advance.StatusPending,
				DateToDeduct:     periodEnd.AddDate(0, 0, 1),
			})
		}
	}

	return resolved
}

// OvertimeAmount computes the per-run effect of an overtime addition.
func OvertimeAmount(hourlyRate, hoursWorked decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(hoursWorked).Round(2)
}
