package taxrate

import "context"

// Repository defines data access for tax configuration.
// All methods include companyID to prevent cross-company data access.
type Repository interface {
	GetActiveRegistry(ctx context.Context, companyID string) (Registry, error)

	ReplaceBands(ctx context.Context, companyID string, bands []TaxBand) ([]TaxBand, error)
	UpsertRate(ctx context.Context, rate StatutoryRate) (StatutoryRate, error)
}
