package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the compensation profile the payroll engine reads.
type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	HireDate         *time.Time // date of joining
	ResignationDate  *time.Time
	EmploymentStatus EmploymentStatus
	BaseSalary       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasBaseSalary reports whether a positive base salary is on file.
func (e Employee) HasBaseSalary() bool {
	return e.BaseSalary != nil && e.BaseSalary.IsPositive()
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
