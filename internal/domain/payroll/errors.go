package payroll

import "errors"

var (
	ErrSalaryComponentsNotFound = errors.New("salary components not found")
	ErrSalarySlipNotFound       = errors.New("salary slip not found")
	ErrSalarySlipAlreadyExists  = errors.New("salary slip already exists for this period")
	ErrSalarySlipAlreadyPaid    = errors.New("salary slip already paid, cannot modify")
	ErrSalarySlipNotVoidable    = errors.New("only generated salary slips can be voided")
	ErrInvalidPeriod            = errors.New("invalid payroll period")
	ErrEmployeeHasNoBaseSalary  = errors.New("employee has no base salary configured")
	ErrEmployeeNotActive        = errors.New("employee is not active")
	ErrGenerationInProgress     = errors.New("salary slip generation already in progress for this period")
)
