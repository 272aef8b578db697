package taxrate

import "context"

// Service manages the company's tax configuration. Band replacement is
// validated as a whole set before anything is persisted.
type Service interface {
	GetRegistry(ctx context.Context) (RegistryResponse, error)
	ReplaceBands(ctx context.Context, req ReplaceBandsRequest) (RegistryResponse, error)
	UpsertRate(ctx context.Context, req UpsertRateRequest) (StatutoryRateResponse, error)
}
