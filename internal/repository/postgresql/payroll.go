package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zedbooks/accounting-backend-go/internal/domain/payroll"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const runColumns = `
	id, company_id, period_start, period_end, run_date, status, payroll_number,
	total_gross, total_deductions, total_net, is_locked, trial_run_at, trial_run_by,
	finalized_at, finalized_by, gl_journal_id, created_by, created_at, updated_at
`

// CreateRun implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	var created payroll.PayrollRun

	err := WithTransaction(ctx, p.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		query := `
			INSERT INTO payroll_runs (
				company_id, period_start, period_end, run_date, status,
				total_gross, total_deductions, total_net, created_by, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING ` + runColumns + `
		`

		out, err := scanRun(tx.QueryRow(ctx, query,
			run.CompanyID, run.PeriodStart, run.PeriodEnd, run.RunDate, run.Status,
			run.TotalGross, run.TotalDeductions, run.TotalNet, run.CreatedBy,
		))
		if err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		if err := p.insertItems(txCtx, out.ID, run.Items); err != nil {
			return err
		}

		created = out
		created.Items = run.Items
		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	return created, nil
}

// GetRunByID implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	run, err := scanRun(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run with id %s: %w", id, err)
	}

	items, err := p.getItems(ctx, run.ID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	run.Items = items

	return run, nil
}

// ListRuns implements payroll.PayrollRepository. Items are not loaded for
// list views.
func (p *payrollRepositoryImpl) ListRuns(ctx context.Context, companyID string, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, p.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM period_end) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payroll_runs WHERE ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	sortBy := "period_end"
	switch filter.SortBy {
	case "run_date", "period_start", "period_end", "status", "created_at":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_runs
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, sortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return runs, totalCount, nil
}

// ReplaceItems implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ReplaceItems(ctx context.Context, runID string, companyID string, items []payroll.PayrollItem, totals payroll.RunTotals) error {
	q := GetQuerier(ctx, p.db)

	// Guarded on status so a concurrent finalize cannot be overwritten.
	updateQuery := `
		UPDATE payroll_runs
		SET total_gross = $1, total_deductions = $2, total_net = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status IN ($6, $7)
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, updateQuery,
		totals.Gross, totals.Deductions, totals.Net,
		runID, companyID, payroll.RunStatusDraft, payroll.RunStatusTrial,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrRunLocked
		}
		return fmt.Errorf("failed to update payroll run totals: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE payroll_run_id = $1`, runID); err != nil {
		return fmt.Errorf("failed to clear payroll items: %w", err)
	}

	return p.insertItems(ctx, runID, items)
}

// MarkTrial implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) MarkTrial(ctx context.Context, runID string, companyID string, by string, at time.Time) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payroll_runs
		SET status = $1, trial_run_at = $2, trial_run_by = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status = $6
		RETURNING ` + runColumns + `
	`

	run, err := scanRun(q.QueryRow(ctx, query,
		payroll.RunStatusTrial, at, by, runID, companyID, payroll.RunStatusDraft,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, p.transitionError(ctx, runID, companyID)
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to mark payroll run as trial: %w", err)
	}

	return run, nil
}

// RevertToDraft implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) RevertToDraft(ctx context.Context, runID string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payroll_runs
		SET status = $1, trial_run_at = NULL, trial_run_by = NULL, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4
		RETURNING ` + runColumns + `
	`

	run, err := scanRun(q.QueryRow(ctx, query,
		payroll.RunStatusDraft, runID, companyID, payroll.RunStatusTrial,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, p.transitionError(ctx, runID, companyID)
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to revert payroll run to draft: %w", err)
	}

	return run, nil
}

// MarkFinal implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) MarkFinal(ctx context.Context, runID string, companyID string, payrollNumber string, journalID string, by string, at time.Time) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payroll_runs
		SET status = $1, payroll_number = $2, gl_journal_id = $3,
			finalized_at = $4, finalized_by = $5, is_locked = true, updated_at = NOW()
		WHERE id = $6 AND company_id = $7 AND status = $8
		RETURNING ` + runColumns + `
	`

	run, err := scanRun(q.QueryRow(ctx, query,
		payroll.RunStatusFinal, payrollNumber, journalID, at, by,
		runID, companyID, payroll.RunStatusTrial,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, p.transitionError(ctx, runID, companyID)
		}
		// Unique index on (company_id, payroll_number).
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.PayrollRun{}, payroll.ErrPayrollNumberTaken
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to finalize payroll run: %w", err)
	}

	return run, nil
}

// NextPayrollNumber implements payroll.PayrollRepository. The sequence is per
// company and year; the row lock on the counter serializes concurrent
// finalizations.
func (p *payrollRepositoryImpl) NextPayrollNumber(ctx context.Context, companyID string, year int) (string, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payroll_sequences (company_id, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, year)
		DO UPDATE SET last_number = payroll_sequences.last_number + 1
		RETURNING last_number
	`

	var lastNumber int
	if err := q.QueryRow(ctx, query, companyID, year).Scan(&lastNumber); err != nil {
		return "", fmt.Errorf("failed to allocate payroll number: %w", err)
	}

	return fmt.Sprintf("PAY-%d-%04d", year, lastNumber), nil
}

// AddAddition implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) AddAddition(ctx context.Context, add payroll.PayrollAddition) (payroll.PayrollAddition, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payroll_additions (
			payroll_run_id, company_id, employee_id, type, name, amount,
			hourly_rate, hours_worked, total_amount, months_to_pay, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, payroll_run_id, company_id, employee_id, type, name, amount,
			hourly_rate, hours_worked, total_amount, months_to_pay, created_at
	`

	out, err := scanAddition(q.QueryRow(ctx, query,
		add.PayrollRunID, add.CompanyID, add.EmployeeID, add.Type, add.Name,
		add.Amount, add.HourlyRate, add.HoursWorked, add.TotalAmount, add.MonthsToPay,
	))
	if err != nil {
		return payroll.PayrollAddition{}, fmt.Errorf("failed to add payroll addition: %w", err)
	}

	return out, nil
}

// RemoveAddition implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) RemoveAddition(ctx context.Context, id string, runID string, companyID string) error {
	q := GetQuerier(ctx, p.db)

	query := `
		DELETE FROM payroll_additions
		WHERE id = $1 AND payroll_run_id = $2 AND company_id = $3
		RETURNING id
	`

	var deletedID string
	err := q.QueryRow(ctx, query, id, runID, companyID).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrAdditionNotFound
		}
		return fmt.Errorf("failed to remove payroll addition %s: %w", id, err)
	}

	return nil
}

// GetAdditionsByRun implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetAdditionsByRun(ctx context.Context, runID string, companyID string) ([]payroll.PayrollAddition, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, payroll_run_id, company_id, employee_id, type, name, amount,
			hourly_rate, hours_worked, total_amount, months_to_pay, created_at
		FROM payroll_additions
		WHERE payroll_run_id = $1 AND company_id = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var additions []payroll.PayrollAddition
	for rows.Next() {
		add, err := scanAddition(rows)
		if err != nil {
			return nil, err
		}
		additions = append(additions, add)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return additions, nil
}

// DeleteAdditionsByRun implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) DeleteAdditionsByRun(ctx context.Context, runID string, companyID string) error {
	q := GetQuerier(ctx, p.db)

	_, err := q.Exec(ctx, `DELETE FROM payroll_additions WHERE payroll_run_id = $1 AND company_id = $2`, runID, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll additions: %w", err)
	}

	return nil
}

// transitionError distinguishes missing runs from wrong-state runs after a
// guarded update matched nothing.
func (p *payrollRepositoryImpl) transitionError(ctx context.Context, runID string, companyID string) error {
	q := GetQuerier(ctx, p.db)

	var status payroll.RunStatus
	err := q.QueryRow(ctx, `SELECT status FROM payroll_runs WHERE id = $1 AND company_id = $2`, runID, companyID).Scan(&status)
	if err != nil {
		return payroll.ErrRunNotFound
	}
	if status == payroll.RunStatusFinal {
		return payroll.ErrRunLocked
	}
	return payroll.ErrInvalidTransition
}

func (p *payrollRepositoryImpl) insertItems(ctx context.Context, runID string, items []payroll.PayrollItem) error {
	q := GetQuerier(ctx, p.db)

	itemQuery := `
		INSERT INTO payroll_items (
			payroll_run_id, employee_id, employee_name, basic_salary,
			housing_allowance, transport_allowance, other_allowance, additional_earnings,
			gross_salary, paye, napsa_employee, napsa_employer, nhima_employee,
			nhima_employer, pension_employee, pension_employer, withholding_tax,
			advances_deducted, total_deductions, net_salary, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		RETURNING id
	`

	chargeQuery := `
		INSERT INTO payroll_item_advances (payroll_item_id, advance_id, amount)
		VALUES ($1, $2, $3)
	`

	for _, item := range items {
		var itemID string
		err := q.QueryRow(ctx, itemQuery,
			runID, item.EmployeeID, item.EmployeeName, item.BasicSalary,
			item.HousingAllowance, item.TransportAllowance, item.OtherAllowance, item.AdditionalEarnings,
			item.GrossSalary, item.Paye, item.NapsaEmployee, item.NapsaEmployer, item.NhimaEmployee,
			item.NhimaEmployer, item.PensionEmployee, item.PensionEmployer, item.WithholdingTax,
			item.AdvancesDeducted, item.TotalDeductions, item.NetSalary,
		).Scan(&itemID)
		if err != nil {
			return fmt.Errorf("failed to insert payroll item for employee %s: %w", item.EmployeeID, err)
		}

		for _, charge := range item.AdvanceCharges {
			if _, err := q.Exec(ctx, chargeQuery, itemID, charge.AdvanceID, charge.Amount); err != nil {
				return fmt.Errorf("failed to insert payroll item advance charge: %w", err)
			}
		}
	}

	return nil
}

func (p *payrollRepositoryImpl) getItems(ctx context.Context, runID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, payroll_run_id, employee_id, employee_name, basic_salary,
			housing_allowance, transport_allowance, other_allowance, additional_earnings,
			gross_salary, paye, napsa_employee, napsa_employer, nhima_employee,
			nhima_employer, pension_employee, pension_employer, withholding_tax,
			advances_deducted, total_deductions, net_salary, created_at, updated_at
		FROM payroll_items
		WHERE payroll_run_id = $1
		ORDER BY employee_name
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		var item payroll.PayrollItem
		err := rows.Scan(
			&item.ID, &item.PayrollRunID, &item.EmployeeID, &item.EmployeeName, &item.BasicSalary,
			&item.HousingAllowance, &item.TransportAllowance, &item.OtherAllowance, &item.AdditionalEarnings,
			&item.GrossSalary, &item.Paye, &item.NapsaEmployee, &item.NapsaEmployer, &item.NhimaEmployee,
			&item.NhimaEmployer, &item.PensionEmployee, &item.PensionEmployer, &item.WithholdingTax,
			&item.AdvancesDeducted, &item.TotalDeductions, &item.NetSalary, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	chargesQuery := `
		SELECT a.payroll_item_id, a.advance_id, a.amount
		FROM payroll_item_advances a
		JOIN payroll_items i ON i.id = a.payroll_item_id
		WHERE i.payroll_run_id = $1
	`

	chargeRows, err := q.Query(ctx, chargesQuery, runID)
	if err != nil {
		return nil, err
	}
	defer chargeRows.Close()

	chargesByItem := make(map[string][]payroll.AdvanceCharge)
	for chargeRows.Next() {
		var itemID string
		var charge payroll.AdvanceCharge
		if err := chargeRows.Scan(&itemID, &charge.AdvanceID, &charge.Amount); err != nil {
			return nil, err
		}
		chargesByItem[itemID] = append(chargesByItem[itemID], charge)
	}
	if err = chargeRows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].AdvanceCharges = chargesByItem[items[i].ID]
	}

	return items, nil
}

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID, &run.CompanyID, &run.PeriodStart, &run.PeriodEnd, &run.RunDate,
		&run.Status, &run.PayrollNumber, &run.TotalGross, &run.TotalDeductions,
		&run.TotalNet, &run.IsLocked, &run.TrialRunAt, &run.TrialRunBy,
		&run.FinalizedAt, &run.FinalizedBy, &run.GLJournalID, &run.CreatedBy,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return run, nil
}

func scanAddition(row pgx.Row) (payroll.PayrollAddition, error) {
	var add payroll.PayrollAddition
	err := row.Scan(
		&add.ID, &add.PayrollRunID, &add.CompanyID, &add.EmployeeID, &add.Type,
		&add.Name, &add.Amount, &add.HourlyRate, &add.HoursWorked, &add.TotalAmount,
		&add.MonthsToPay, &add.CreatedAt,
	)
	if err != nil {
		return payroll.PayrollAddition{}, err
	}
	return add, nil
}
