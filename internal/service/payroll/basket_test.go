package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
)

func TestResolveAdditionsGross(t *testing.T) {
	periodEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	additions := []payroll.PayrollAddition{
		{EmployeeID: "e1", Type: payroll.AdditionEarning, Amount: d("500")},
		{EmployeeID: "e1", Type: payroll.AdditionBonus, Amount: d("1000")},
		{EmployeeID: "e1", Type: payroll.AdditionOvertime, Amount: d("250")},
		{EmployeeID: "e2", Type: payroll.AdditionEarning, Amount: d("300")},
	}

	resolved := ResolveAdditions(additions, "c1", periodEnd)

	assert.True(t, resolved.GrossFor("e1").Equal(d("1750")))
	assert.True(t, resolved.GrossFor("e2").Equal(d("300")))
	assert.True(t, resolved.GrossFor("e3").IsZero())
	assert.Empty(t, resolved.NewAdvances)
}

func TestResolveAdditionsAdvance(t *testing.T) {
	periodEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	months := 3

	additions := []payroll.PayrollAddition{
		{
			EmployeeID:  "e1",
			Type:        payroll.AdditionAdvance,
			Amount:      d("1000"),
			TotalAmount: dp("3000"),
			MonthsToPay: &months,
		},
	}

	resolved := ResolveAdditions(additions, "c1", periodEnd)

	// An advance request never raises gross in the run that created it.
	assert.True(t, resolved.GrossFor("e1").IsZero())

	require.Len(t, resolved.NewAdvances, 1)
	adv := resolved.NewAdvances[0]
	assert.Equal(t, "c1", adv.CompanyID)
	assert.Equal(t, "e1", adv.EmployeeID)
	assert.True(t, adv.Amount.Equal(d("3000")))
	assert.True(t, adv.MonthlyDeduction.Equal(d("1000")))
	assert.True(t, adv.RemainingBalance.Equal(d("3000")))
	assert.Equal(t, advance.StatusPending, adv.Status)
	// Recovery starts the day after this run's period, so the creating run
	// cannot deduct it.
	assert.Equal(t, periodEnd.AddDate(0, 0, 1), adv.DateToDeduct)
	assert.True(t, adv.DueAmount(periodEnd).IsZero())
}

func TestOvertimeAmount(t *testing.T) {
	assert.True(t, OvertimeAmount(d("62.50"), d("8")).Equal(d("500")))
	assert.True(t, OvertimeAmount(d("33.333"), d("3")).Equal(d("100")))
}
