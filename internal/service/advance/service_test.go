package advance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func claimsContext(t *testing.T, companyID, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"company_id": companyID,
		"user_id":    userID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// fakeAdvanceRepo reproduces the conditional decrement semantics of the
// database layer in memory.
type fakeAdvanceRepo struct {
	advances map[string]advance.Advance
	nextID   int
}

func newFakeAdvanceRepo() *fakeAdvanceRepo {
	return &fakeAdvanceRepo{advances: make(map[string]advance.Advance)}
}

func (f *fakeAdvanceRepo) Create(ctx context.Context, adv advance.Advance) (advance.Advance, error) {
	f.nextID++
	adv.ID = fmt.Sprintf("adv-%d", f.nextID)
	adv.CreatedAt = time.Now()
	f.advances[adv.ID] = adv
	return adv, nil
}

func (f *fakeAdvanceRepo) GetByID(ctx context.Context, id string, companyID string) (advance.Advance, error) {
	adv, ok := f.advances[id]
	if !ok || adv.CompanyID != companyID {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	return adv, nil
}

func (f *fakeAdvanceRepo) GetOutstandingByEmployee(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]advance.Advance, error) {
	var result []advance.Advance
	for _, adv := range f.advances {
		if adv.EmployeeID == employeeID && adv.CompanyID == companyID && adv.Outstanding() && !adv.DateToDeduct.After(asOf) {
			result = append(result, adv)
		}
	}
	return result, nil
}

func (f *fakeAdvanceRepo) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]advance.Advance, error) {
	var result []advance.Advance
	for _, adv := range f.advances {
		if adv.EmployeeID == employeeID && adv.CompanyID == companyID {
			result = append(result, adv)
		}
	}
	return result, nil
}

func (f *fakeAdvanceRepo) ApplyDeduction(ctx context.Context, id string, companyID string, amount decimal.Decimal) (advance.Advance, error) {
	adv, ok := f.advances[id]
	if !ok || adv.CompanyID != companyID {
		return advance.Advance{}, advance.ErrAdvanceAlreadySettled
	}
	if !adv.Outstanding() || adv.RemainingBalance.LessThan(amount) {
		return advance.Advance{}, advance.ErrAdvanceAlreadySettled
	}
	adv.RemainingBalance = adv.RemainingBalance.Sub(amount)
	if adv.RemainingBalance.IsZero() {
		adv.Status = advance.StatusCompleted
	} else {
		adv.Status = advance.StatusPartial
	}
	f.advances[id] = adv
	return adv, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, emp := range f.employees {
		if emp.CompanyID == companyID && emp.EmploymentStatus == employee.EmploymentStatusActive {
			result = append(result, emp)
		}
	}
	return result, nil
}

func newTestService() (advance.Service, *fakeAdvanceRepo) {
	advRepo := newFakeAdvanceRepo()
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"e1": {ID: "e1", CompanyID: "c1", FullName: "Jane Banda", EmploymentStatus: employee.EmploymentStatusActive},
	}}
	return NewAdvanceService(advRepo, empRepo), advRepo
}

func TestCreateAdvance(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	resp, err := svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "e1",
		Amount:        d("3000"),
		MonthsToRepay: 3,
		DateToDeduct:  "2026-01-01",
	})
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(d("3000")))
	assert.True(t, resp.MonthlyDeduction.Equal(d("1000")))
	assert.True(t, resp.RemainingBalance.Equal(d("3000")))
	assert.Equal(t, string(advance.StatusPending), resp.Status)
}

func TestCreateAdvanceValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	_, err := svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "e1",
		Amount:        d("-100"),
		MonthsToRepay: 3,
	})
	assert.Error(t, err)

	_, err = svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "unknown",
		Amount:        d("100"),
		MonthsToRepay: 1,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAdvanceRepaymentLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	resp, err := svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "e1",
		Amount:        d("3000"),
		MonthsToRepay: 3,
		DateToDeduct:  "2026-01-01",
	})
	require.NoError(t, err)

	periodEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// Three runs, each deducting the monthly installment.
	for i := 1; i <= 3; i++ {
		total, deductions, err := svc.DueDeductions(ctx, "c1", "e1", periodEnd)
		require.NoError(t, err)
		require.Len(t, deductions, 1, "run %d", i)
		assert.True(t, total.Equal(d("1000")), "run %d due %s", i, total)

		adv, err := svc.ApplyDeduction(ctx, "c1", deductions[0].AdvanceID, deductions[0].Amount)
		require.NoError(t, err)

		switch i {
		case 1:
			assert.True(t, adv.RemainingBalance.Equal(d("2000")))
			assert.Equal(t, advance.StatusPartial, adv.Status)
		case 2:
			assert.True(t, adv.RemainingBalance.Equal(d("1000")))
			assert.Equal(t, advance.StatusPartial, adv.Status)
		case 3:
			assert.True(t, adv.RemainingBalance.IsZero())
			assert.Equal(t, advance.StatusCompleted, adv.Status)
		}
	}

	// Settled advance owes nothing and rejects further deductions.
	total, deductions, err := svc.DueDeductions(ctx, "c1", "e1", periodEnd)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Empty(t, deductions)

	_, err = svc.ApplyDeduction(ctx, "c1", resp.ID, d("1000"))
	assert.ErrorIs(t, err, advance.ErrAdvanceAlreadySettled)
}

func TestDueDeductionsClampsFinalInstallment(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	// 1000 over 3 months: 334 + 334 + 332.
	_, err := svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "e1",
		Amount:        d("1000"),
		MonthsToRepay: 3,
		DateToDeduct:  "2026-01-01",
	})
	require.NoError(t, err)

	periodEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	expected := []string{"334", "334", "332"}
	for i, want := range expected {
		total, deductions, err := svc.DueDeductions(ctx, "c1", "e1", periodEnd)
		require.NoError(t, err)
		require.Len(t, deductions, 1)
		assert.True(t, total.Equal(d(want)), "installment %d: got %s, want %s", i+1, total, want)

		_, err = svc.ApplyDeduction(ctx, "c1", deductions[0].AdvanceID, deductions[0].Amount)
		require.NoError(t, err)
	}
}

func TestDueDeductionsSkipsFutureAdvances(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	_, err := svc.CreateAdvance(ctx, advance.CreateAdvanceRequest{
		EmployeeID:    "e1",
		Amount:        d("600"),
		MonthsToRepay: 2,
		DateToDeduct:  "2026-03-01",
	})
	require.NoError(t, err)

	total, deductions, err := svc.DueDeductions(ctx, "c1", "e1", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Empty(t, deductions)
}

func TestApplyDeductionRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "c1", "u1")

	_, err := svc.ApplyDeduction(ctx, "c1", "adv-1", decimal.Zero)
	assert.ErrorIs(t, err, advance.ErrInvalidDeduction)
}
