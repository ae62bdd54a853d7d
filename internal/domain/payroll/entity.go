package payroll

import (
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/shopspring/decimal"
)

// SalaryComponents - Fixed monthly earnings of an employee
type SalaryComponents struct {
	EmployeeID       string
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	Medical          decimal.Decimal
	SpecialAllowance decimal.Decimal
	OtherAllowances  decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ComponentsFromBaseSalary treats the base salary as a single Basic component.
func ComponentsFromBaseSalary(employeeID string, base decimal.Decimal) SalaryComponents {
	return SalaryComponents{EmployeeID: employeeID, Basic: base}
}

func (c SalaryComponents) Total() decimal.Decimal {
	return decimal.Sum(c.Basic, c.HRA, c.Conveyance, c.Medical, c.SpecialAllowance, c.OtherAllowances)
}

// Scale multiplies every component by ratio, rounded to 2 places.
func (c SalaryComponents) Scale(ratio decimal.Decimal) SalaryComponents {
	scale := func(d decimal.Decimal) decimal.Decimal { return d.Mul(ratio).Round(2) }
	return SalaryComponents{
		EmployeeID:       c.EmployeeID,
		Basic:            scale(c.Basic),
		HRA:              scale(c.HRA),
		Conveyance:       scale(c.Conveyance),
		Medical:          scale(c.Medical),
		SpecialAllowance: scale(c.SpecialAllowance),
		OtherAllowances:  scale(c.OtherAllowances),
	}
}

// SlipStatus enum
type SlipStatus string

const (
	SlipStatusGenerated SlipStatus = "GENERATED"
	SlipStatusPaid      SlipStatus = "PAID"
	SlipStatusVoid      SlipStatus = "VOID"
)

func (s SlipStatus) IsValid() bool {
	switch s {
	case SlipStatusGenerated, SlipStatusPaid, SlipStatusVoid:
		return true
	}
	return false
}

// SalarySlip - Persisted monthly pay result for one employee
type SalarySlip struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Month      int
	Year       int
	LOPDays    decimal.Decimal
	AmountPaid decimal.Decimal
	Breakdown  Breakdown
	Status     SlipStatus
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// BreakdownInput is everything the breakdown calculator needs; it performs no I/O.
type BreakdownInput struct {
	Components  SalaryComponents
	LWPDays     decimal.Decimal
	DaysInMonth int
	Settings    statutory.Settings
	Arrears     decimal.Decimal
}

// Deductions withheld from the employee
type Deductions struct {
	PFEmployee      decimal.Decimal `json:"pf_employee"`
	ESICEmployee    decimal.Decimal `json:"esic_employee"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	TDS             decimal.Decimal `json:"tds"`
	Total           decimal.Decimal `json:"total"`
}

// EmployerContributions paid by the company on top of gross
type EmployerContributions struct {
	PFEmployer   decimal.Decimal `json:"pf_employer"`
	ESICEmployer decimal.Decimal `json:"esic_employer"`
	Total        decimal.Decimal `json:"total"`
}

// Earnings holds the prorated components.
type Earnings struct {
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
}

// NewEarnings converts prorated components into the persisted earnings block.
func NewEarnings(c SalaryComponents) Earnings {
	return Earnings{
		Basic:            c.Basic,
		HRA:              c.HRA,
		Conveyance:       c.Conveyance,
		Medical:          c.Medical,
		SpecialAllowance: c.SpecialAllowance,
		OtherAllowances:  c.OtherAllowances,
	}
}

func (e Earnings) Total() decimal.Decimal {
	return decimal.Sum(e.Basic, e.HRA, e.Conveyance, e.Medical, e.SpecialAllowance, e.OtherAllowances)
}

// Breakdown is the full result of a salary computation. Consumers (slip
// rendering, settlement) read these fields and never recompute them.
type Breakdown struct {
	TotalGrossFixed       decimal.Decimal       `json:"total_gross_fixed"`
	LWPDays               decimal.Decimal       `json:"lwp_days"`
	DaysInMonth           int                   `json:"days_in_month"`
	LWPDeduction          decimal.Decimal       `json:"lwp_deduction"`
	ProrationRatio        decimal.Decimal       `json:"proration_ratio"`
	Earnings              Earnings              `json:"earnings"`
	AdjustedGross         decimal.Decimal       `json:"adjusted_gross"`
	PFBasis               decimal.Decimal       `json:"pf_basis"`
	ESICApplicable        bool                  `json:"esic_applicable"`
	Deductions            Deductions            `json:"deductions"`
	EmployerContributions EmployerContributions `json:"employer_contributions"`
	Arrears               decimal.Decimal       `json:"arrears"`
	NetPayable            decimal.Decimal       `json:"net_payable"`
	CostToCompany         decimal.Decimal       `json:"cost_to_company"`
}

// GenerateResult reports the outcome of a bulk generation run.
type GenerateResult struct {
	RunID             string   `json:"run_id"`
	CompanyID         string   `json:"company_id"`
	Month             int      `json:"month"`
	Year              int      `json:"year"`
	EligibleCount     int      `json:"eligible_count"`
	GeneratedCount    int      `json:"generated_count"`
	SkippedExisting   int      `json:"skipped_existing"`
	SkippedNoSalary   int      `json:"skipped_no_salary"`
	FailedCount       int      `json:"failed_count"`
	FailedEmployeeIDs []string `json:"failed_employee_ids,omitempty"`
}

// PeriodStart returns the first instant of the pay month.
func PeriodStart(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days of the pay month.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
