package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// ListApprovedByEmployee returns approved requests starting on or before until.
	ListApprovedByEmployee(ctx context.Context, employeeID string, until time.Time) ([]LeaveRequest, error)
}
