package settlement

import (
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSettlementRequest struct {
	EmployeeID          string           `json:"employee_id"`
	LastWorkingDay      string           `json:"last_working_day"` // YYYY-MM-DD
	NoticeServed        bool             `json:"notice_served"`
	NoticeShortfallDays int              `json:"notice_shortfall_days"`
	LeaveEncashmentDays decimal.Decimal  `json:"leave_encashment_days"`
	Bonus               decimal.Decimal  `json:"bonus"`
	Gratuity            *decimal.Decimal `json:"gratuity,omitempty"` // nil = statutory formula
	OtherDues           decimal.Decimal  `json:"other_dues"`
	Deductions          decimal.Decimal  `json:"deductions"`

	// Parsed by Validate
	LastWorkingDate time.Time `json:"-"`
}

func (r *CreateSettlementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LastWorkingDay) {
		errs = append(errs, validator.ValidationError{Field: "last_working_day", Message: "is required"})
	} else if date, ok := validator.IsValidDate(r.LastWorkingDay); !ok {
		errs = append(errs, validator.ValidationError{Field: "last_working_day", Message: "must be in YYYY-MM-DD format"})
	} else {
		r.LastWorkingDate = date
	}
	if r.NoticeShortfallDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "notice_shortfall_days", Message: "must be non-negative"})
	}
	if r.NoticeServed && r.NoticeShortfallDays > 0 {
		errs = append(errs, validator.ValidationError{Field: "notice_shortfall_days", Message: "must be 0 when notice was served"})
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"leave_encashment_days", r.LeaveEncashmentDays},
		{"bonus", r.Bonus},
		{"other_dues", r.OtherDues},
		{"deductions", r.Deductions},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: a.field, Message: "must be non-negative"})
		}
	}
	if r.Gratuity != nil && r.Gratuity.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "gratuity", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettlementResponse struct {
	ID                  string            `json:"id"`
	EmployeeID          string            `json:"employee_id"`
	EmployeeName        string            `json:"employee_name,omitempty"`
	LastWorkingDay      string            `json:"last_working_day"`
	NoticeServed        bool              `json:"notice_served"`
	NoticeShortfallDays int               `json:"notice_shortfall_days"`
	LeaveEncashmentDays decimal.Decimal   `json:"leave_encashment_days"`
	DailyRate           decimal.Decimal   `json:"daily_rate"`
	LeaveEncashment     decimal.Decimal   `json:"leave_encashment"`
	Bonus               decimal.Decimal   `json:"bonus"`
	Gratuity            decimal.Decimal   `json:"gratuity"`
	OtherDues           decimal.Decimal   `json:"other_dues"`
	Deductions          decimal.Decimal   `json:"deductions"`
	NoticeRecovery      decimal.Decimal   `json:"notice_recovery"`
	NetPayable          decimal.Decimal   `json:"net_payable"`
	FinalMonth          payroll.Breakdown `json:"final_month"`
	FinalMonthSlipID    *string           `json:"final_month_slip_id,omitempty"`
	CreatedAt           string            `json:"created_at"`
}

func NewSettlementResponse(s FinalSettlement) SettlementResponse {
	name := ""
	if s.EmployeeName != nil {
		name = *s.EmployeeName
	}
	return SettlementResponse{
		ID:                  s.ID,
		EmployeeID:          s.EmployeeID,
		EmployeeName:        name,
		LastWorkingDay:      s.LastWorkingDay.Format("2006-01-02"),
		NoticeServed:        s.NoticeServed,
		NoticeShortfallDays: s.NoticeShortfallDays,
		LeaveEncashmentDays: s.LeaveEncashmentDays,
		DailyRate:           s.DailyRate,
		LeaveEncashment:     s.LeaveEncashment,
		Bonus:               s.Bonus,
		Gratuity:            s.Gratuity,
		OtherDues:           s.OtherDues,
		Deductions:          s.Deductions,
		NoticeRecovery:      s.NoticeRecovery,
		NetPayable:          s.NetPayable,
		FinalMonth:          s.FinalMonth,
		FinalMonthSlipID:    s.FinalMonthSlipID,
		CreatedAt:           s.CreatedAt.Format(time.RFC3339),
	}
}
