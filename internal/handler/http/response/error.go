package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/settlement"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is no longer active")

	// Statutory domain errors
	case errors.Is(err, statutory.ErrSettingsNotFound):
		NotFound(w, "Statutory settings not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalaryComponentsNotFound):
		NotFound(w, "Salary components not found")
	case errors.Is(err, payroll.ErrSalarySlipNotFound):
		NotFound(w, "Salary slip not found")
	case errors.Is(err, payroll.ErrSalarySlipAlreadyExists):
		Conflict(w, "Salary slip already exists for this period")
	case errors.Is(err, payroll.ErrSalarySlipAlreadyPaid):
		Conflict(w, "Salary slip is already paid")
	case errors.Is(err, payroll.ErrSalarySlipNotVoidable):
		Conflict(w, "Only generated salary slips can be voided")
	case errors.Is(err, payroll.ErrGenerationInProgress):
		Conflict(w, "Payroll generation is already running for this period")
	case errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary):
		BadRequest(w, "Employee has no salary on file", nil)
	case errors.Is(err, payroll.ErrEmployeeNotActive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Settlement domain errors
	case errors.Is(err, settlement.ErrSettlementNotFound):
		NotFound(w, "Final settlement not found")
	case errors.Is(err, settlement.ErrSettlementAlreadyExists):
		Conflict(w, "Employee has already been settled")
	case errors.Is(err, settlement.ErrLastWorkingDayBeforeHire):
		BadRequest(w, "Last working day is before the hire date", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
