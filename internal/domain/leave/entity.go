package leave

import (
	"math"
	"time"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveRequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r LeaveRequest) IsApproved() bool {
	return r.Status == LeaveRequestStatusApproved
}

// DaySpan returns the inclusive number of days covered by the request:
// ceil(|end - start| in days) + 1.
func (r LeaveRequest) DaySpan() float64 {
	diff := r.EndDate.Sub(r.StartDate)
	if diff < 0 {
		diff = -diff
	}
	return math.Ceil(diff.Hours()/24) + 1
}

// MonthlyAccrualDays is the leave entitlement earned per month of service.
const MonthlyAccrualDays = 1.5

// AccrualPolicy holds the accrual constants used by the LOP calculation.
type AccrualPolicy struct {
	MonthlyAccrualDays float64
}

func DefaultAccrualPolicy() AccrualPolicy {
	return AccrualPolicy{MonthlyAccrualDays: MonthlyAccrualDays}
}

// AccrualResult exposes every step of the loss-of-pay computation for one pay month.
type AccrualResult struct {
	PeriodStart      time.Time
	PeriodEnd        time.Time
	HireDateKnown    bool
	MonthsEmployed   int
	OpeningAccrued   float64
	PastDaysTaken    float64
	OpeningBalance   float64
	CurrentDaysTaken float64
	AvailableToCover float64
	LOPDays          float64
}
