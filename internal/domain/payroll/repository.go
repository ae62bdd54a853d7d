package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll.
// All slip methods include companyID parameter to prevent cross-company data access.
type PayrollRepository interface {
	// Salary components
	GetSalaryComponents(ctx context.Context, employeeID string) (SalaryComponents, error)
	UpsertSalaryComponents(ctx context.Context, components SalaryComponents) (SalaryComponents, error)

	// Salary slips

	// CreateSlipIfAbsent inserts slip unless a non-void slip already exists for
	// (employee, month, year). created is false when the insert was skipped.
	CreateSlipIfAbsent(ctx context.Context, slip SalarySlip) (result SalarySlip, created bool, err error)
	GetSlipByID(ctx context.Context, id string, companyID string) (SalarySlip, error)
	// GetActiveSlipForPeriod returns the employee's non-void slip for the period,
	// or ErrSalarySlipNotFound.
	GetActiveSlipForPeriod(ctx context.Context, employeeID string, companyID string, month, year int) (SalarySlip, error)
	// ListSlipEmployeeIDs returns employees that already hold a non-void slip for the period.
	ListSlipEmployeeIDs(ctx context.Context, companyID string, month, year int) ([]string, error)
	ListSlips(ctx context.Context, companyID string, filter SlipFilter) ([]SalarySlip, int64, error)
	MarkSlipsPaid(ctx context.Context, ids []string, companyID string, paidAt time.Time) (int64, error)
	VoidSlip(ctx context.Context, id string, companyID string) error

	// Aggregations
	GetSummary(ctx context.Context, companyID string, month, year int) (PayrollSummaryResponse, error)
}
