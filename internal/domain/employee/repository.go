package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	ListCompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error)
	// Deactivate moves an active employee to status and records the resignation date.
	Deactivate(ctx context.Context, id string, companyID string, status EmploymentStatus, resignationDate time.Time) error
}
