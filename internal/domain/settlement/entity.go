package settlement

import (
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// SettlementDayDivisor converts a monthly gross into the daily rate used for
// leave encashment and notice recovery.
const SettlementDayDivisor = 30

// Gratuity is earned at 15 days of Basic per completed year, on a 26 working-day month.
const (
	GratuityDaysPerYear     = 15
	GratuityWorkingDays     = 26
	GratuityMinServiceYears = 5
)

// FinalSettlement - Terminal payroll record issued when an employee exits
type FinalSettlement struct {
	ID                  string
	EmployeeID          string
	CompanyID           string
	LastWorkingDay      time.Time
	NoticeServed        bool
	NoticeShortfallDays int
	LeaveEncashmentDays decimal.Decimal
	DailyRate           decimal.Decimal
	LeaveEncashment     decimal.Decimal
	Bonus               decimal.Decimal
	Gratuity            decimal.Decimal
	OtherDues           decimal.Decimal
	Deductions          decimal.Decimal
	NoticeRecovery      decimal.Decimal
	NetPayable          decimal.Decimal
	FinalMonth          payroll.Breakdown
	CreatedAt           time.Time

	// Set when the final month was already paid through a salary slip;
	// FinalMonth is then empty and not part of NetPayable.
	FinalMonthSlipID *string

	// Joined fields
	EmployeeName *string
}
