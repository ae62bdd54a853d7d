package leave

import "time"

// AccrualCalculator computes chargeable loss-of-pay days for one pay month.
type AccrualCalculator interface {
	Calculate(hireDate *time.Time, requests []LeaveRequest, month, year int) AccrualResult
}
