package settlement

import "context"

type SettlementRepository interface {
	Create(ctx context.Context, s FinalSettlement) (FinalSettlement, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (FinalSettlement, error)
}
