package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/settlement"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/middleware"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/response"
)

type SettlementHandler interface {
	Settle(w http.ResponseWriter, r *http.Request)
	GetByEmployeeID(w http.ResponseWriter, r *http.Request)
}

type settlementHandlerImpl struct {
	settlementService settlement.SettlementService
}

func NewSettlementHandler(settlementService settlement.SettlementService) SettlementHandler {
	return &settlementHandlerImpl{settlementService: settlementService}
}

func (h *settlementHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	var req settlement.CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settlementService.Settle(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Final settlement issued", result)
}

func (h *settlementHandlerImpl) GetByEmployeeID(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.settlementService.GetByEmployeeID(r.Context(), middleware.CompanyID(r.Context()), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
