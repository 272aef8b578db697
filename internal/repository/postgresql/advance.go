package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/zedbooks/accounting-backend-go/internal/domain/advance"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceColumns = `
	id, company_id, employee_id, amount, months_to_repay, monthly_deduction,
	remaining_balance, status, date_to_deduct, created_at, updated_at
`

// Create implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) Create(ctx context.Context, adv advance.Advance) (advance.Advance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO advances (
			company_id, employee_id, amount, months_to_repay, monthly_deduction,
			remaining_balance, status, date_to_deduct, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + advanceColumns + `
	`

	out, err := scanAdvance(q.QueryRow(ctx, query,
		adv.CompanyID, adv.EmployeeID, adv.Amount, adv.MonthsToRepay,
		adv.MonthlyDeduction, adv.RemainingBalance, adv.Status, adv.DateToDeduct,
	))
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}

	return out, nil
}

// GetByID implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (advance.Advance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE id = $1 AND company_id = $2
	`

	out, err := scanAdvance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance with id %s: %w", id, err)
	}

	return out, nil
}

// GetOutstandingByEmployee implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) GetOutstandingByEmployee(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]advance.Advance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE employee_id = $1 AND company_id = $2
			AND status IN ($3, $4)
			AND date_to_deduct <= $5
		ORDER BY date_to_deduct, created_at
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, advance.StatusPending, advance.StatusPartial, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// ListByEmployee implements advance.AdvanceRepository.
func (a *advanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]advance.Advance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// ApplyDeduction implements advance.AdvanceRepository. The decrement is
// conditional: it only matches when the remaining balance covers the amount
// and the advance is still outstanding. No matched row means another run
// already consumed the balance, reported as ErrAdvanceAlreadySettled.
func (a *advanceRepositoryImpl) ApplyDeduction(ctx context.Context, id string, companyID string, amount decimal.Decimal) (advance.Advance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE advances
		SET remaining_balance = remaining_balance - $1,
			status = CASE WHEN remaining_balance - $1 <= 0 THEN $2 ELSE $3 END,
			updated_at = NOW()
		WHERE id = $4 AND company_id = $5
			AND remaining_balance >= $1
			AND status IN ($6, $7)
		RETURNING ` + advanceColumns + `
	`

	out, err := scanAdvance(q.QueryRow(ctx, query,
		amount, advance.StatusCompleted, advance.StatusPartial,
		id, companyID, advance.StatusPending, advance.StatusPartial,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceAlreadySettled
		}
		return advance.Advance{}, fmt.Errorf("failed to apply deduction to advance %s: %w", id, err)
	}

	return out, nil
}

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var adv advance.Advance
	err := row.Scan(
		&adv.ID, &adv.CompanyID, &adv.EmployeeID, &adv.Amount, &adv.MonthsToRepay,
		&adv.MonthlyDeduction, &adv.RemainingBalance, &adv.Status, &adv.DateToDeduct,
		&adv.CreatedAt, &adv.UpdatedAt,
	)
	if err != nil {
		return advance.Advance{}, err
	}
	return adv, nil
}

func collectAdvances(rows pgx.Rows) ([]advance.Advance, error) {
	var advances []advance.Advance
	for rows.Next() {
		adv, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, adv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return advances, nil
}
