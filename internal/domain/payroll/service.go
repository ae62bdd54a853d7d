package payroll

import "context"

type PayrollService interface {
	// Salary components
	GetSalaryComponents(ctx context.Context, companyID string, employeeID string) (SalaryComponentsResponse, error)
	UpsertSalaryComponents(ctx context.Context, companyID string, req UpsertSalaryComponentsRequest) (SalaryComponentsResponse, error)

	// Generation
	GenerateSlips(ctx context.Context, companyID string, month, year int) (GenerateResult, error)
	CreateSlip(ctx context.Context, companyID string, req CreateSlipRequest) (SalarySlipResponse, error)
	PreviewSlip(ctx context.Context, companyID string, req CreateSlipRequest) (SlipPreviewResponse, error)

	// Slips
	GetSlip(ctx context.Context, companyID string, id string) (SalarySlipResponse, error)
	ListSlips(ctx context.Context, companyID string, filter SlipFilter) (ListSlipResponse, error)
	MarkPaid(ctx context.Context, companyID string, req MarkPaidRequest) (MarkPaidResponse, error)
	VoidSlip(ctx context.Context, companyID string, id string) (SalarySlipResponse, error)

	// Summary
	GetSummary(ctx context.Context, companyID string, month, year int) (PayrollSummaryResponse, error)
}
