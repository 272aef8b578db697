package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
	"github.com/zedbooks/accounting-backend-go/internal/pkg/database"
)

type taxRateRepositoryImpl struct {
	db *database.DB
}

func NewTaxRateRepository(db *database.DB) taxrate.Repository {
	return &taxRateRepositoryImpl{db: db}
}

// GetActiveRegistry implements taxrate.Repository.
func (t *taxRateRepositoryImpl) GetActiveRegistry(ctx context.Context, companyID string) (taxrate.Registry, error) {
	q := GetQuerier(ctx, t.db)

	bandsQuery := `
		SELECT id, company_id, band_order, min_amount, max_amount, rate, created_at, updated_at
		FROM tax_bands
		WHERE company_id = $1
		ORDER BY band_order
	`

	rows, err := q.Query(ctx, bandsQuery, companyID)
	if err != nil {
		return taxrate.Registry{}, fmt.Errorf("failed to get tax bands: %w", err)
	}
	defer rows.Close()

	var bands []taxrate.TaxBand
	for rows.Next() {
		var b taxrate.TaxBand
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.BandOrder, &b.MinAmount, &b.MaxAmount, &b.Rate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return taxrate.Registry{}, err
		}
		bands = append(bands, b)
	}
	if err = rows.Err(); err != nil {
		return taxrate.Registry{}, err
	}

	ratesQuery := `
		SELECT id, company_id, type, employee_rate, employer_rate, employee_base, employer_base, cap_amount, created_at, updated_at
		FROM statutory_rates
		WHERE company_id = $1 AND is_active = true
	`

	rateRows, err := q.Query(ctx, ratesQuery, companyID)
	if err != nil {
		return taxrate.Registry{}, fmt.Errorf("failed to get statutory rates: %w", err)
	}
	defer rateRows.Close()

	rates := make(map[taxrate.StatutoryType]taxrate.StatutoryRate)
	for rateRows.Next() {
		var r taxrate.StatutoryRate
		if err := rateRows.Scan(&r.ID, &r.CompanyID, &r.Type, &r.EmployeeRate, &r.EmployerRate, &r.EmployeeBase, &r.EmployerBase, &r.CapAmount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return taxrate.Registry{}, err
		}
		rates[r.Type] = r
	}
	if err = rateRows.Err(); err != nil {
		return taxrate.Registry{}, err
	}

	if len(bands) == 0 && len(rates) == 0 {
		return taxrate.Registry{}, taxrate.ErrRegistryNotFound
	}

	return taxrate.Registry{
		CompanyID: companyID,
		Bands:     bands,
		Rates:     rates,
	}, nil
}

// ReplaceBands implements taxrate.Repository. The whole band table for the
// company is swapped in one transaction so readers never observe a partial
// band set.
func (t *taxRateRepositoryImpl) ReplaceBands(ctx context.Context, companyID string, bands []taxrate.TaxBand) ([]taxrate.TaxBand, error) {
	var stored []taxrate.TaxBand

	err := WithTransaction(ctx, t.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tax_bands WHERE company_id = $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear tax bands: %w", err)
		}

		insertQuery := `
			INSERT INTO tax_bands (company_id, band_order, min_amount, max_amount, rate, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id, company_id, band_order, min_amount, max_amount, rate, created_at, updated_at
		`

		for _, b := range bands {
			var out taxrate.TaxBand
			err := tx.QueryRow(ctx, insertQuery, companyID, b.BandOrder, b.MinAmount, b.MaxAmount, b.Rate).
				Scan(&out.ID, &out.CompanyID, &out.BandOrder, &out.MinAmount, &out.MaxAmount, &out.Rate, &out.CreatedAt, &out.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert tax band: %w", err)
			}
			stored = append(stored, out)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// UpsertRate implements taxrate.Repository.
func (t *taxRateRepositoryImpl) UpsertRate(ctx context.Context, rate taxrate.StatutoryRate) (taxrate.StatutoryRate, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		INSERT INTO statutory_rates (company_id, type, employee_rate, employer_rate, employee_base, employer_base, cap_amount, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW(), NOW())
		ON CONFLICT (company_id, type) WHERE is_active
		DO UPDATE SET
			employee_rate = EXCLUDED.employee_rate,
			employer_rate = EXCLUDED.employer_rate,
			employee_base = EXCLUDED.employee_base,
			employer_base = EXCLUDED.employer_base,
			cap_amount = EXCLUDED.cap_amount,
			updated_at = NOW()
		RETURNING id, company_id, type, employee_rate, employer_rate, employee_base, employer_base, cap_amount, created_at, updated_at
	`

	var out taxrate.StatutoryRate
	err := q.QueryRow(ctx, query,
		rate.CompanyID, rate.Type, rate.EmployeeRate, rate.EmployerRate,
		rate.EmployeeBase, rate.EmployerBase, rate.CapAmount,
	).Scan(&out.ID, &out.CompanyID, &out.Type, &out.EmployeeRate, &out.EmployerRate, &out.EmployeeBase, &out.EmployerBase, &out.CapAmount, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return taxrate.StatutoryRate{}, fmt.Errorf("failed to upsert statutory rate: %w", err)
	}

	return out, nil
}
