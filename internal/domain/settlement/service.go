package settlement

import "context"

type SettlementService interface {
	// Settle computes, persists and issues the final settlement, deactivating the employee.
	Settle(ctx context.Context, companyID string, req CreateSettlementRequest) (SettlementResponse, error)
	GetByEmployeeID(ctx context.Context, companyID string, employeeID string) (SettlementResponse, error)
}
