package http

import (
	"encoding/json"
	"net/http"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/middleware"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/response"
)

type StatutoryHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type statutoryHandlerImpl struct {
	statutoryService statutory.StatutoryService
}

func NewStatutoryHandler(statutoryService statutory.StatutoryService) StatutoryHandler {
	return &statutoryHandlerImpl{statutoryService: statutoryService}
}

func (h *statutoryHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.statutoryService.GetSettings(r.Context(), middleware.CompanyID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req statutory.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.UpdateSettings(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Statutory settings updated", result)
}
