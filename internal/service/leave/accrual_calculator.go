package leave

import (
	"math"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
)

type AccrualCalculatorImpl struct {
	policy leave.AccrualPolicy
}

func NewAccrualCalculator(policy leave.AccrualPolicy) leave.AccrualCalculator {
	return &AccrualCalculatorImpl{policy: policy}
}

// Calculate returns the loss-of-pay days for the pay month. Requests that are
// not approved are ignored, and overlapping requests are summed as-is.
func (c *AccrualCalculatorImpl) Calculate(hireDate *time.Time, requests []leave.LeaveRequest, month, year int) leave.AccrualResult {
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	result := leave.AccrualResult{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	for _, req := range requests {
		if !req.IsApproved() {
			continue
		}
		switch {
		case req.EndDate.Before(periodStart):
			result.PastDaysTaken += req.DaySpan()
		case !req.StartDate.Before(periodStart) && !req.EndDate.After(periodEnd):
			result.CurrentDaysTaken += req.DaySpan()
		}
	}

	// Without a joining date the history is unknown; nothing is charged.
	if hireDate == nil {
		return result
	}

	result.HireDateKnown = true
	result.MonthsEmployed = monthsBetween(*hireDate, periodStart)
	result.OpeningAccrued = float64(result.MonthsEmployed) * c.policy.MonthlyAccrualDays
	result.OpeningBalance = math.Max(0, result.OpeningAccrued-result.PastDaysTaken)
	result.AvailableToCover = result.OpeningBalance + c.policy.MonthlyAccrualDays
	result.LOPDays = math.Max(0, result.CurrentDaysTaken-result.AvailableToCover)

	return result
}

// monthsBetween counts whole calendar months from start to end, clamped at 0.
func monthsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())

	totalMonths := years*12 + months

	// Adjust if day hasn't passed yet
	if end.Day() < start.Day() {
		totalMonths--
	}

	if totalMonths < 0 {
		totalMonths = 0
	}

	return totalMonths
}
