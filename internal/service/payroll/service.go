package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/domain/employee"
	"github.com/zedbooks/accounting-backend-go/internal/domain/ledger"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
	"github.com/zedbooks/accounting-backend-go/internal/domain/period"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
	"github.com/zedbooks/accounting-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db           *database.DB
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	taxRepo      taxrate.Repository
	periodRepo   period.PeriodRepository
	advanceSvc   advance.Service
	ledgerSvc    ledger.Service
	calculator   *Calculator

	// withTx wraps multi-statement sequences in a database transaction.
	withTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	taxRepo taxrate.Repository,
	periodRepo period.PeriodRepository,
	advanceSvc advance.Service,
	ledgerSvc ledger.Service,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		taxRepo:      taxRepo,
		periodRepo:   periodRepo,
		advanceSvc:   advanceSvc,
		ledgerSvc:    ledgerSvc,
		calculator:   NewCalculator(),
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
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

// ========== WORKFLOW ENTRY POINTS ==========

func (s *PayrollServiceImpl) CreateDraftRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)
	runDate := time.Now()
	if req.RunDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.RunDate); err == nil {
			runDate = parsed
		}
	}

	// Runs may only be created inside an open financial period, and must not
	// straddle a period boundary.
	openPeriod, err := s.periodRepo.GetOpenPeriodCovering(ctx, companyID, periodEnd)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !openPeriod.Covers(periodStart) {
		return payroll.RunResponse{}, payroll.ErrRunPeriodInvalid
	}

	registry, err := s.taxRepo.GetActiveRegistry(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if err := registry.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(req.EmployeeIDs) > 0 {
		wanted := make(map[string]bool)
		for _, id := range req.EmployeeIDs {
			wanted[id] = true
		}
		var filtered []employee.Employee
		for _, emp := range employees {
			if wanted[emp.ID] {
				filtered = append(filtered, emp)
			}
		}
		employees = filtered
	}
	if len(employees) == 0 {
		return payroll.RunResponse{}, payroll.ErrNoActiveEmployees
	}

	items, totals, err := s.computeItems(ctx, companyID, employees, registry, nil, periodEnd)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run := payroll.PayrollRun{
		CompanyID:       companyID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		RunDate:         runDate,
		Status:          payroll.RunStatusDraft,
		TotalGross:      totals.Gross,
		TotalDeductions: totals.Deductions,
		TotalNet:        totals.Net,
		CreatedBy:       userID,
		Items:           items,
	}

	created, err := s.payrollRepo.CreateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(created), nil
}

func (s *PayrollServiceImpl) RunTrial(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if err := requireTransition(run, payroll.RunStatusTrial); err != nil {
		return payroll.RunResponse{}, err
	}

	if _, err := s.periodRepo.GetOpenPeriodCovering(ctx, companyID, run.PeriodEnd); err != nil {
		return payroll.RunResponse{}, err
	}

	var result payroll.PayrollRun
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// Recompute from current employee and advance data so the trial
		// reflects whatever changed since the draft was created.
		items, totals, err := s.recomputeRun(txCtx, companyID, run)
		if err != nil {
			return err
		}
		if err := s.payrollRepo.ReplaceItems(txCtx, run.ID, companyID, items, totals); err != nil {
			return err
		}

		result, err = s.payrollRepo.MarkTrial(txCtx, run.ID, companyID, userID, time.Now())
		return err
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return s.GetRun(ctx, result.ID)
}

func (s *PayrollServiceImpl) RevertToDraft(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	// Additions are preserved across the revert; the draft stays editable
	// with the same basket.
	run, err := s.payrollRepo.RevertToDraft(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return s.GetRun(ctx, run.ID)
}

// FinalizeRun drives the terminal transition. The whole sequence runs in one
// transaction: period re-check, payroll number assignment, advance balance
// mutations, journal posting and the guarded trial -> final flip are visible
// together or not at all.
func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	var finalized payroll.PayrollRun
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		run, err := s.payrollRepo.GetRunByID(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if err := requireTransition(run, payroll.RunStatusFinal); err != nil {
			return err
		}

		if _, err := s.periodRepo.GetOpenPeriodCovering(txCtx, companyID, run.PeriodEnd); err != nil {
			return err
		}

		payrollNumber, err := s.payrollRepo.NextPayrollNumber(txCtx, companyID, run.PeriodEnd.Year())
		if err != nil {
			return err
		}

		// Consume advance balances. Any conditional-update failure aborts
		// the entire finalize; a concurrent run got there first.
		for _, item := range run.Items {
			for _, charge := range item.AdvanceCharges {
				if _, err := s.advanceSvc.ApplyDeduction(txCtx, companyID, charge.AdvanceID, charge.Amount); err != nil {
					return err
				}
			}
		}

		// Advances requested through the basket exist only once the run is
		// final; they become due from the next qualifying run.
		additions, err := s.payrollRepo.GetAdditionsByRun(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		resolved := ResolveAdditions(additions, companyID, run.PeriodEnd)
		for _, adv := range resolved.NewAdvances {
			if _, err := s.advanceSvc.CreateResolved(txCtx, adv); err != nil {
				return err
			}
		}

		run.PayrollNumber = &payrollNumber
		entry, err := s.ledgerSvc.PostPayrollRun(txCtx, companyID, run)
		if err != nil {
			return err
		}

		finalized, err = s.payrollRepo.MarkFinal(txCtx, runID, companyID, payrollNumber, entry.ID, userID, time.Now())
		if err != nil {
			return err
		}

		// The basket is scoped to the draft lifecycle and is not carried
		// forward once the run is final.
		return s.payrollRepo.DeleteAdditionsByRun(txCtx, runID, companyID)
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return s.GetRun(ctx, finalized.ID)
}

// ========== READS ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRunsResponse{}, err
	}

	runs, totalCount, err := s.payrollRepo.ListRuns(ctx, companyID, filter)
	if err != nil {
		return payroll.ListRunsResponse{}, err
	}

	data := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		data = append(data, mapToRunResponse(run))
	}

	return payroll.ListRunsResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== ADDITIONS BASKET ==========

func (s *PayrollServiceImpl) AddAddition(ctx context.Context, runID string, req payroll.AddAdditionRequest) (payroll.AdditionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdditionResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.AdditionResponse{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.AdditionResponse{}, err
	}
	if err := requireStatus(run, payroll.RunStatusDraft); err != nil {
		return payroll.AdditionResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return payroll.AdditionResponse{}, err
	}

	add := payroll.PayrollAddition{
		PayrollRunID: runID,
		CompanyID:    companyID,
		EmployeeID:   req.EmployeeID,
		Type:         payroll.AdditionType(req.Type),
		Name:         req.Name,
		Amount:       req.Amount,
		HourlyRate:   req.HourlyRate,
		HoursWorked:  req.HoursWorked,
		TotalAmount:  req.TotalAmount,
		MonthsToPay:  req.MonthsToPay,
	}

	switch add.Type {
	case payroll.AdditionOvertime:
		add.Amount = OvertimeAmount(*req.HourlyRate, *req.HoursWorked)
	case payroll.AdditionAdvance:
		months := 1
		if req.MonthsToPay != nil {
			months = *req.MonthsToPay
		}
		// Amount carries the per-run effect: the monthly deduction the new
		// advance will levy once due.
		add.Amount = advance.MonthlyInstallment(*req.TotalAmount, months)
	}

	var created payroll.PayrollAddition
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.payrollRepo.AddAddition(txCtx, add)
		if err != nil {
			return err
		}

		return s.recomputeAndStore(txCtx, companyID, run)
	})
	if err != nil {
		return payroll.AdditionResponse{}, err
	}

	return mapToAdditionResponse(created), nil
}

func (s *PayrollServiceImpl) RemoveAddition(ctx context.Context, runID string, additionID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if err := requireStatus(run, payroll.RunStatusDraft); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.payrollRepo.RemoveAddition(txCtx, additionID, runID, companyID); err != nil {
			return err
		}

		return s.recomputeAndStore(txCtx, companyID, run)
	})
}

func (s *PayrollServiceImpl) ListAdditions(ctx context.Context, runID string) ([]payroll.AdditionResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	additions, err := s.payrollRepo.GetAdditionsByRun(ctx, runID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.AdditionResponse, 0, len(additions))
	for _, add := range additions {
		result = append(result, mapToAdditionResponse(add))
	}
	return result, nil
}

// ========== COMPUTATION ==========

// computeItems snapshots every employee through the calculator with their
// due advance deductions and resolved basket additions.
func (s *PayrollServiceImpl) computeItems(
	ctx context.Context,
	companyID string,
	employees []employee.Employee,
	registry taxrate.Registry,
	additions []payroll.PayrollAddition,
	periodEnd time.Time,
) ([]payroll.PayrollItem, payroll.RunTotals, error) {
	resolved := ResolveAdditions(additions, companyID, periodEnd)

	var items []payroll.PayrollItem
	totals := payroll.RunTotals{
		Gross:      decimal.Zero,
		Deductions: decimal.Zero,
		Net:        decimal.Zero,
	}

	for _, emp := range employees {
		_, deductions, err := s.advanceSvc.DueDeductions(ctx, companyID, emp.ID, periodEnd)
		if err != nil {
			return nil, payroll.RunTotals{}, err
		}

		charges := make([]payroll.AdvanceCharge, 0, len(deductions))
		for _, d := range deductions {
			charges = append(charges, payroll.AdvanceCharge{AdvanceID: d.AdvanceID, Amount: d.Amount})
		}

		item, err := s.calculator.Compute(ComputeInput{
			Employee:           emp,
			Registry:           registry,
			AdditionalEarnings: resolved.GrossFor(emp.ID),
			AdvanceCharges:     charges,
		})
		if err != nil {
			return nil, payroll.RunTotals{}, err
		}

		items = append(items, item)
		totals.Gross = totals.Gross.Add(item.GrossSalary)
		totals.Deductions = totals.Deductions.Add(item.TotalDeductions)
		totals.Net = totals.Net.Add(item.NetSalary)
	}

	return items, totals, nil
}

// recomputeRun rebuilds the run's items from fresh employee, advance and
// rate data, keeping the roster captured at creation.
func (s *PayrollServiceImpl) recomputeRun(ctx context.Context, companyID string, run payroll.PayrollRun) ([]payroll.PayrollItem, payroll.RunTotals, error) {
	registry, err := s.taxRepo.GetActiveRegistry(ctx, companyID)
	if err != nil {
		return nil, payroll.RunTotals{}, err
	}
	if err := registry.Validate(); err != nil {
		return nil, payroll.RunTotals{}, err
	}

	var employees []employee.Employee
	for _, item := range run.Items {
		emp, err := s.employeeRepo.GetByID(ctx, item.EmployeeID, companyID)
		if err != nil {
			return nil, payroll.RunTotals{}, err
		}
		employees = append(employees, emp)
	}

	additions, err := s.payrollRepo.GetAdditionsByRun(ctx, run.ID, companyID)
	if err != nil {
		return nil, payroll.RunTotals{}, err
	}

	return s.computeItems(ctx, companyID, employees, registry, additions, run.PeriodEnd)
}

func (s *PayrollServiceImpl) recomputeAndStore(ctx context.Context, companyID string, run payroll.PayrollRun) error {
	items, totals, err := s.recomputeRun(ctx, companyID, run)
	if err != nil {
		return err
	}
	return s.payrollRepo.ReplaceItems(ctx, run.ID, companyID, items, totals)
}

// requireStatus gates draft edits: the run must currently be in want.
func requireStatus(run payroll.PayrollRun, want payroll.RunStatus) error {
	if run.Status == want {
		return nil
	}
	if run.Status == payroll.RunStatusFinal || run.IsLocked {
		return payroll.ErrRunLocked
	}
	return payroll.ErrInvalidTransition
}

// requireTransition gates a workflow edge: the run's current status must
// allow moving to target. The guarded repository update enforces the same
// rule again under the transaction.
func requireTransition(run payroll.PayrollRun, target payroll.RunStatus) error {
	if run.Status.CanTransition(target) {
		return nil
	}
	if run.Status == payroll.RunStatusFinal || run.IsLocked {
		return payroll.ErrRunLocked
	}
	return payroll.ErrInvalidTransition
}

// ========== HELPERS ==========

func mapToRunResponse(run payroll.PayrollRun) payroll.RunResponse {
	resp := payroll.RunResponse{
		ID:              run.ID,
		PeriodStart:     run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       run.PeriodEnd.Format("2006-01-02"),
		RunDate:         run.RunDate.Format("2006-01-02"),
		Status:          string(run.Status),
		PayrollNumber:   run.PayrollNumber,
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		IsLocked:        run.IsLocked,
		TrialRunBy:      run.TrialRunBy,
		FinalizedBy:     run.FinalizedBy,
		GLJournalID:     run.GLJournalID,
	}
	if run.TrialRunAt != nil {
		str := run.TrialRunAt.Format(time.RFC3339)
		resp.TrialRunAt = &str
	}
	if run.FinalizedAt != nil {
		str := run.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &str
	}
	for _, item := range run.Items {
		resp.Items = append(resp.Items, mapToItemResponse(item))
	}
	return resp
}

func mapToItemResponse(item payroll.PayrollItem) payroll.ItemResponse {
	return payroll.ItemResponse{
		ID:                 item.ID,
		EmployeeID:         item.EmployeeID,
		EmployeeName:       item.EmployeeName,
		BasicSalary:        item.BasicSalary,
		HousingAllowance:   item.HousingAllowance,
		TransportAllowance: item.TransportAllowance,
		OtherAllowance:     item.OtherAllowance,
		AdditionalEarnings: item.AdditionalEarnings,
		GrossSalary:        item.GrossSalary,
		Paye:               item.Paye,
		NapsaEmployee:      item.NapsaEmployee,
		NapsaEmployer:      item.NapsaEmployer,
		NhimaEmployee:      item.NhimaEmployee,
		NhimaEmployer:      item.NhimaEmployer,
		PensionEmployee:    item.PensionEmployee,
		PensionEmployer:    item.PensionEmployer,
		WithholdingTax:     item.WithholdingTax,
		AdvancesDeducted:   item.AdvancesDeducted,
		TotalDeductions:    item.TotalDeductions,
		NetSalary:          item.NetSalary,
	}
}

func mapToAdditionResponse(add payroll.PayrollAddition) payroll.AdditionResponse {
	return payroll.AdditionResponse{
		ID:          add.ID,
		EmployeeID:  add.EmployeeID,
		Type:        string(add.Type),
		Name:        add.Name,
		Amount:      add.Amount,
		HourlyRate:  add.HourlyRate,
		HoursWorked: add.HoursWorked,
		TotalAmount: add.TotalAmount,
		MonthsToPay: add.MonthsToPay,
	}
}
