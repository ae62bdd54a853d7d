package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApprovedByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedByEmployee(ctx context.Context, employeeID string, until time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, start_date, end_date, status, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2 AND start_date <= $3
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.LeaveRequestStatusApproved, until)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get approved leave requests: %w", err)
	}

	return requests, nil
}
