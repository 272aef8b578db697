package http

import (
	"encoding/json"
	"net/http"

	"github.com/zedbooks/accounting-backend-go/internal/domain/taxrate"
	"github.com/zedbooks/accounting-backend-go/internal/handler/http/response"
)

type TaxRateHandler interface {
	GetRegistry(w http.ResponseWriter, r *http.Request)
	ReplaceBands(w http.ResponseWriter, r *http.Request)
	UpsertRate(w http.ResponseWriter, r *http.Request)
}

type taxRateHandlerImpl struct {
	taxRateService taxrate.Service
}

func NewTaxRateHandler(taxRateService taxrate.Service) TaxRateHandler {
	return &taxRateHandlerImpl{taxRateService: taxRateService}
}

func (h *taxRateHandlerImpl) GetRegistry(w http.ResponseWriter, r *http.Request) {
	result, err := h.taxRateService.GetRegistry(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxRateHandlerImpl) ReplaceBands(w http.ResponseWriter, r *http.Request) {
	var req taxrate.ReplaceBandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxRateService.ReplaceBands(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxRateHandlerImpl) UpsertRate(w http.ResponseWriter, r *http.Request) {
	var req taxrate.UpsertRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxRateService.UpsertRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
