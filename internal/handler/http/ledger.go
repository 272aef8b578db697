package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zedbooks/accounting-backend-go/internal/domain/ledger"
	"github.com/zedbooks/accounting-backend-go/internal/handler/http/response"
)

type LedgerHandler interface {
	PostOpeningBalances(w http.ResponseWriter, r *http.Request)
	GetEntry(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerService ledger.Service) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func (h *ledgerHandlerImpl) PostOpeningBalances(w http.ResponseWriter, r *http.Request) {
	var req ledger.PostOpeningBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.PostOpeningBalances(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Opening balances posted", result)
}

func (h *ledgerHandlerImpl) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Journal entry ID is required", nil)
		return
	}

	result, err := h.ledgerService.GetEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
