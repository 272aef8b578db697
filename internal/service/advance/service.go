package advance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
)

type AdvanceServiceImpl struct {
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
) advance.Service {
	return &AdvanceServiceImpl{
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *AdvanceServiceImpl) CreateAdvance(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return advance.AdvanceResponse{}, err
	}

	dateToDeduct := time.Now()
	if req.DateToDeduct != "" {
		parsed, err := time.Parse("2006-01-02", req.DateToDeduct)
		if err == nil {
			dateToDeduct = parsed
		}
	}

	adv := advance.Advance{
		CompanyID:        companyID,
		EmployeeID:       req.EmployeeID,
		Amount:           req.Amount,
		MonthsToRepay:    req.MonthsToRepay,
		MonthlyDeduction: advance.MonthlyInstallment(req.Amount, req.MonthsToRepay),
		RemainingBalance: req.Amount,
		Status:           advance.StatusPending,
		DateToDeduct:     dateToDeduct,
	}

	created, err := s.advanceRepo.Create(ctx, adv)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *AdvanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]advance.AdvanceResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	advances, err := s.advanceRepo.ListByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]advance.AdvanceResponse, 0, len(advances))
	for _, adv := range advances {
		result = append(result, mapToResponse(adv))
	}
	return result, nil
}

// DueDeductions sums the installment owed by each outstanding advance whose
// deduction date falls on or before the period end. Multiple advances for
// one employee accumulate independently.
func (s *AdvanceServiceImpl) DueDeductions(ctx context.Context, companyID string, employeeID string, periodEnd time.Time) (decimal.Decimal, []advance.Deduction, error) {
	advances, err := s.advanceRepo.GetOutstandingByEmployee(ctx, employeeID, companyID, periodEnd)
	if err != nil {
		return decimal.Zero, nil, err
	}

	total := decimal.Zero
	var deductions []advance.Deduction
	for _, adv := range advances {
		due := adv.DueAmount(periodEnd)
		if !due.IsPositive() {
			continue
		}
		total = total.Add(due)
		deductions = append(deductions, advance.Deduction{AdvanceID: adv.ID, Amount: due})
	}

	return total, deductions, nil
}

// ApplyDeduction is only invoked when a run is finalized, never on draft
// preview, so discarded runs leave balances untouched.
func (s *AdvanceServiceImpl) ApplyDeduction(ctx context.Context, companyID string, advanceID string, amount decimal.Decimal) (advance.Advance, error) {
	if !amount.IsPositive() {
		return advance.Advance{}, advance.ErrInvalidDeduction
	}
	return s.advanceRepo.ApplyDeduction(ctx, advanceID, companyID, amount)
}

// CreateResolved persists an advance resolved from a run's additions basket.
func (s *AdvanceServiceImpl) CreateResolved(ctx context.Context, adv advance.Advance) (advance.Advance, error) {
	return s.advanceRepo.Create(ctx, adv)
}

func mapToResponse(adv advance.Advance) advance.AdvanceResponse {
	return advance.AdvanceResponse{
		ID:               adv.ID,
		EmployeeID:       adv.EmployeeID,
		Amount:           adv.Amount,
		MonthsToRepay:    adv.MonthsToRepay,
		MonthlyDeduction: adv.MonthlyDeduction,
		RemainingBalance: adv.RemainingBalance,
		Status:           string(adv.Status),
		DateToDeduct:     adv.DateToDeduct.Format("2006-01-02"),
	}
}
