package payroll

import (
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MinPayrollYear is the earliest pay year the engine accepts.
const MinPayrollYear = 2020

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < MinPayrollYear {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2020 or later"})
	}
	return errs
}

// ========== SALARY COMPONENT DTOs ==========

type UpsertSalaryComponentsRequest struct {
	EmployeeID       string          `json:"-"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
}

func (r *UpsertSalaryComponentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Basic.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic", Message: "must be greater than 0"})
	}

	others := []struct {
		field string
		value decimal.Decimal
	}{
		{"hra", r.HRA},
		{"conveyance", r.Conveyance},
		{"medical", r.Medical},
		{"special_allowance", r.SpecialAllowance},
		{"other_allowances", r.OtherAllowances},
	}
	for _, o := range others {
		if o.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: o.field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpsertSalaryComponentsRequest) ToComponents() SalaryComponents {
	return SalaryComponents{
		EmployeeID:       r.EmployeeID,
		Basic:            r.Basic,
		HRA:              r.HRA,
		Conveyance:       r.Conveyance,
		Medical:          r.Medical,
		SpecialAllowance: r.SpecialAllowance,
		OtherAllowances:  r.OtherAllowances,
	}
}

type SalaryComponentsResponse struct {
	EmployeeID       string          `json:"employee_id"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	TotalGrossFixed  decimal.Decimal `json:"total_gross_fixed"`
	// DerivedFromBaseSalary is true when no structured components are stored.
	DerivedFromBaseSalary bool `json:"derived_from_base_salary"`
}

func NewSalaryComponentsResponse(c SalaryComponents, derived bool) SalaryComponentsResponse {
	return SalaryComponentsResponse{
		EmployeeID:            c.EmployeeID,
		Basic:                 c.Basic,
		HRA:                   c.HRA,
		Conveyance:            c.Conveyance,
		Medical:               c.Medical,
		SpecialAllowance:      c.SpecialAllowance,
		OtherAllowances:       c.OtherAllowances,
		TotalGrossFixed:       c.Total(),
		DerivedFromBaseSalary: derived,
	}
}

// ========== SLIP GENERATION DTOs ==========

type GenerateSlipsRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *GenerateSlipsRequest) Validate() error {
	if errs := validatePeriod(r.Month, r.Year); len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateSlipRequest drives both single-slip creation and preview.
type CreateSlipRequest struct {
	EmployeeID string           `json:"employee_id"`
	Month      int              `json:"month"`
	Year       int              `json:"year"`
	Arrears    *decimal.Decimal `json:"arrears,omitempty"`
}

func (r *CreateSlipRequest) Validate() error {
	errs := validatePeriod(r.Month, r.Year)

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Arrears != nil && r.Arrears.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "arrears", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateSlipRequest) ArrearsOrZero() decimal.Decimal {
	if r.Arrears == nil {
		return decimal.Zero
	}
	return *r.Arrears
}

type SlipPreviewResponse struct {
	EmployeeID string          `json:"employee_id"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	LOPDays    decimal.Decimal `json:"lop_days"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Breakdown  Breakdown       `json:"breakdown"`
}

// ========== SLIP DTOs ==========

type MarkPaidRequest struct {
	SlipIDs []string `json:"slip_ids"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.SlipIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "slip_ids", Message: "at least one slip is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidResponse struct {
	Requested int   `json:"requested"`
	Updated   int64 `json:"updated"`
}

type SalarySlipResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	EmployeeCode string          `json:"employee_code,omitempty"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	LOPDays      decimal.Decimal `json:"lop_days"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Status       string          `json:"status"`
	PaidAt       *string         `json:"paid_at,omitempty"`
	Breakdown    Breakdown       `json:"breakdown"`
	CreatedAt    string          `json:"created_at"`
}

type SlipFilter struct {
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Status     *string `json:"status,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

func (f *SlipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Status != nil && !SlipStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be GENERATED, PAID or VOID"})
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "must be 'asc' or 'desc'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListSlipResponse struct {
	Data       []SalarySlipResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type PayrollSummaryResponse struct {
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	TotalSlips         int             `json:"total_slips"`
	GeneratedCount     int             `json:"generated_count"`
	PaidCount          int             `json:"paid_count"`
	VoidCount          int             `json:"void_count"`
	TotalAdjustedGross decimal.Decimal `json:"total_adjusted_gross"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	TotalAmountPaid    decimal.Decimal `json:"total_amount_paid"`
	TotalCostToCompany decimal.Decimal `json:"total_cost_to_company"`
}
