package taxrate

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
)

type TaxRateServiceImpl struct {
	taxRepo taxrate.Repository
}

func NewTaxRateService(taxRepo taxrate.Repository) taxrate.Service {
	return &TaxRateServiceImpl{taxRepo: taxRepo}
}

func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// GetRegistry implements taxrate.Service.
func (s *TaxRateServiceImpl) GetRegistry(ctx context.Context) (taxrate.RegistryResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return taxrate.RegistryResponse{}, err
	}

	registry, err := s.taxRepo.GetActiveRegistry(ctx, companyID)
	if err != nil {
		return taxrate.RegistryResponse{}, err
	}

	return mapToRegistryResponse(registry), nil
}

// ReplaceBands implements taxrate.Service. The replacement band set is
// validated as a whole before anything is persisted, so a broken set can
// never go live.
func (s *TaxRateServiceImpl) ReplaceBands(ctx context.Context, req taxrate.ReplaceBandsRequest) (taxrate.RegistryResponse, error) {
	if err := req.Validate(); err != nil {
		return taxrate.RegistryResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return taxrate.RegistryResponse{}, err
	}

	bands := make([]taxrate.TaxBand, 0, len(req.Bands))
	for _, in := range req.Bands {
		bands = append(bands, taxrate.TaxBand{
			CompanyID: companyID,
			BandOrder: in.BandOrder,
			MinAmount: in.MinAmount,
			MaxAmount: in.MaxAmount,
			Rate:      in.Rate,
		})
	}

	candidate := taxrate.Registry{CompanyID: companyID, Bands: bands}
	if err := candidate.Validate(); err != nil {
		return taxrate.RegistryResponse{}, err
	}

	if _, err := s.taxRepo.ReplaceBands(ctx, companyID, bands); err != nil {
		return taxrate.RegistryResponse{}, err
	}

	registry, err := s.taxRepo.GetActiveRegistry(ctx, companyID)
	if err != nil {
		return taxrate.RegistryResponse{}, err
	}

	return mapToRegistryResponse(registry), nil
}

// UpsertRate implements taxrate.Service.
func (s *TaxRateServiceImpl) UpsertRate(ctx context.Context, req taxrate.UpsertRateRequest) (taxrate.StatutoryRateResponse, error) {
	if err := req.Validate(); err != nil {
		return taxrate.StatutoryRateResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return taxrate.StatutoryRateResponse{}, err
	}

	rate := taxrate.StatutoryRate{
		CompanyID:    companyID,
		Type:         taxrate.StatutoryType(req.Type),
		EmployeeRate: req.EmployeeRate,
		EmployerRate: req.EmployerRate,
		EmployeeBase: taxrate.ReferenceBase(req.EmployeeBase),
		EmployerBase: taxrate.ReferenceBase(req.EmployerBase),
		CapAmount:    req.CapAmount,
	}
	if rate.EmployeeBase == "" {
		rate.EmployeeBase = taxrate.BaseBasic
	}
	if rate.EmployerBase == "" {
		rate.EmployerBase = rate.EmployeeBase
	}

	stored, err := s.taxRepo.UpsertRate(ctx, rate)
	if err != nil {
		return taxrate.StatutoryRateResponse{}, err
	}

	return mapToRateResponse(stored), nil
}

func mapToRegistryResponse(registry taxrate.Registry) taxrate.RegistryResponse {
	resp := taxrate.RegistryResponse{CompanyID: registry.CompanyID}
	for _, b := range registry.SortedBands() {
		resp.Bands = append(resp.Bands, taxrate.TaxBandResponse{
			ID:        b.ID,
			BandOrder: b.BandOrder,
			MinAmount: b.MinAmount,
			MaxAmount: b.MaxAmount,
			Rate:      b.Rate,
		})
	}
	for _, t := range []taxrate.StatutoryType{
		taxrate.StatutoryNapsa, taxrate.StatutoryNhima, taxrate.StatutoryPension,
		taxrate.StatutoryWhtLocal, taxrate.StatutoryWhtNonResident,
	} {
		if rate, ok := registry.Rate(t); ok {
			resp.Rates = append(resp.Rates, mapToRateResponse(rate))
		}
	}
	return resp
}

func mapToRateResponse(rate taxrate.StatutoryRate) taxrate.StatutoryRateResponse {
	return taxrate.StatutoryRateResponse{
		ID:           rate.ID,
		Type:         string(rate.Type),
		EmployeeRate: rate.EmployeeRate,
		EmployerRate: rate.EmployerRate,
		EmployeeBase: string(rate.EmployeeBase),
		EmployerBase: string(rate.EmployerBase),
		CapAmount:    rate.CapAmount,
	}
}
