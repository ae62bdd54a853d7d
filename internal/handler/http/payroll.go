package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/middleware"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/response"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	// Salary components
	GetSalaryComponents(w http.ResponseWriter, r *http.Request)
	UpsertSalaryComponents(w http.ResponseWriter, r *http.Request)

	// Slips
	GenerateSlips(w http.ResponseWriter, r *http.Request)
	CreateSlip(w http.ResponseWriter, r *http.Request)
	PreviewSlip(w http.ResponseWriter, r *http.Request)
	GetSlip(w http.ResponseWriter, r *http.Request)
	ListSlips(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	VoidSlip(w http.ResponseWriter, r *http.Request)

	// Summary
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== SALARY COMPONENTS ==========

func (h *payrollHandlerImpl) GetSalaryComponents(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	result, err := h.payrollService.GetSalaryComponents(r.Context(), middleware.CompanyID(r.Context()), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpsertSalaryComponents(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertSalaryComponentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpsertSalaryComponents(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SLIPS ==========

func (h *payrollHandlerImpl) GenerateSlips(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateSlipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateSlips(r.Context(), middleware.CompanyID(r.Context()), req.Month, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary slips generated", result)
}

func (h *payrollHandlerImpl) CreateSlip(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateSlip(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary slip created", result)
}

func (h *payrollHandlerImpl) PreviewSlip(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewSlip(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetSlip(r.Context(), middleware.CompanyID(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListSlips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := payroll.SlipFilter{
		Page:      1,
		Limit:     20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	var errs validator.ValidationErrors
	if pageStr := query.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a number"})
		}
		filter.Month = &month
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a number"})
		}
		filter.Year = &year
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if sortBy := query.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := query.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.payrollService.ListSlips(r.Context(), middleware.CompanyID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkPaid(r.Context(), middleware.CompanyID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary slips marked as paid", result)
}

func (h *payrollHandlerImpl) VoidSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.VoidSlip(r.Context(), middleware.CompanyID(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary slip voided", result)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	month, monthErr := strconv.Atoi(r.URL.Query().Get("month"))
	year, yearErr := strconv.Atoi(r.URL.Query().Get("year"))
	if monthErr != nil || yearErr != nil {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.payrollService.GetSummary(r.Context(), middleware.CompanyID(r.Context()), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
