package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/period"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

// GetOpenPeriodCovering implements period.PeriodRepository.
func (p *periodRepositoryImpl) GetOpenPeriodCovering(ctx context.Context, companyID string, date time.Time) (period.FinancialPeriod, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, company_id, name, start_date, end_date, is_closed, created_at, updated_at
		FROM financial_periods
		WHERE company_id = $1 AND start_date <= $2 AND end_date >= $2 AND is_closed = false
	`

	var fp period.FinancialPeriod
	err := q.QueryRow(ctx, query, companyID, date).Scan(
		&fp.ID, &fp.CompanyID, &fp.Name, &fp.StartDate, &fp.EndDate,
		&fp.IsClosed, &fp.CreatedAt, &fp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.FinancialPeriod{}, period.ErrClosedPeriod
		}
		return period.FinancialPeriod{}, fmt.Errorf("failed to get financial period: %w", err)
	}

	return fp, nil
}
