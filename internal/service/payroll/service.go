package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/lock"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers = 4
	defaultLockTTL = 10 * time.Minute
)

// Options tunes bulk generation.
type Options struct {
	Workers int
	LockTTL time.Duration
}

type PayrollServiceImpl struct {
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	statutoryService statutory.StatutoryService
	accrual          leave.AccrualCalculator
	locker           lock.Locker
	workers          int
	lockTTL          time.Duration
	now              func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	statutoryService statutory.StatutoryService,
	accrual leave.AccrualCalculator,
	locker lock.Locker,
	opts Options,
) payroll.PayrollService {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &PayrollServiceImpl{
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		leaveRequestRepo: leaveRequestRepo,
		statutoryService: statutoryService,
		accrual:          accrual,
		locker:           locker,
		workers:          opts.Workers,
		lockTTL:          opts.LockTTL,
		now:              time.Now,
	}
}

// GenerationLockKey names the run lock for one company and pay month.
func GenerationLockKey(companyID string, month, year int) string {
	return fmt.Sprintf("payroll:generate:%s:%04d-%02d", companyID, year, month)
}

// ComponentsFor returns the employee's stored salary components, falling back to
// the base salary as a single Basic component. derived reports the fallback.
func ComponentsFor(ctx context.Context, repo payroll.PayrollRepository, emp employee.Employee) (components payroll.SalaryComponents, derived bool, err error) {
	components, err = repo.GetSalaryComponents(ctx, emp.ID)
	if err == nil {
		return components, false, nil
	}
	if !errors.Is(err, payroll.ErrSalaryComponentsNotFound) {
		return payroll.SalaryComponents{}, false, err
	}
	if !emp.HasBaseSalary() {
		return payroll.SalaryComponents{}, false, payroll.ErrEmployeeHasNoBaseSalary
	}
	return payroll.ComponentsFromBaseSalary(emp.ID, *emp.BaseSalary), true, nil
}

// ========== SALARY COMPONENTS ==========

func (s *PayrollServiceImpl) GetSalaryComponents(ctx context.Context, companyID string, employeeID string) (payroll.SalaryComponentsResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.SalaryComponentsResponse{}, err
	}

	components, derived, err := ComponentsFor(ctx, s.payrollRepo, emp)
	if err != nil {
		if errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary) {
			return payroll.SalaryComponentsResponse{}, payroll.ErrSalaryComponentsNotFound
		}
		return payroll.SalaryComponentsResponse{}, err
	}

	return payroll.NewSalaryComponentsResponse(components, derived), nil
}

func (s *PayrollServiceImpl) UpsertSalaryComponents(ctx context.Context, companyID string, req payroll.UpsertSalaryComponentsRequest) (payroll.SalaryComponentsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryComponentsResponse{}, err
	}

	// Scope check: the employee must belong to the caller's company
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return payroll.SalaryComponentsResponse{}, err
	}

	saved, err := s.payrollRepo.UpsertSalaryComponents(ctx, req.ToComponents())
	if err != nil {
		return payroll.SalaryComponentsResponse{}, err
	}

	return payroll.NewSalaryComponentsResponse(saved, false), nil
}

// ========== GENERATION ==========

// GenerateSlips creates one GENERATED slip per eligible active employee for the
// period. Re-running it is a no-op for employees that already hold a slip.
func (s *PayrollServiceImpl) GenerateSlips(ctx context.Context, companyID string, month, year int) (payroll.GenerateResult, error) {
	req := payroll.GenerateSlipsRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return payroll.GenerateResult{}, err
	}

	result := payroll.GenerateResult{
		RunID:     uuid.NewString(),
		CompanyID: companyID,
		Month:     month,
		Year:      year,
	}

	lockKey := GenerationLockKey(companyID, month, year)
	release, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return payroll.GenerateResult{}, payroll.ErrGenerationInProgress
		}
		return payroll.GenerateResult{}, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release payroll generation lock", "run_id", result.RunID, "key", lockKey, "error", err)
		}
	}()

	settings, err := s.statutoryService.Resolve(ctx, companyID)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to get employees: %w", err)
	}

	existingIDs, err := s.payrollRepo.ListSlipEmployeeIDs(ctx, companyID, month, year)
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to get existing salary slips: %w", err)
	}
	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	slog.Info("Payroll generation started",
		"run_id", result.RunID,
		"company_id", companyID,
		"month", month,
		"year", year,
		"employees", len(employees),
	)
	start := time.Now()

	var pending []employee.Employee
	for _, emp := range employees {
		switch {
		case existing[emp.ID]:
			result.SkippedExisting++
		case !emp.HasBaseSalary():
			result.SkippedNoSalary++
			slog.Info("Payroll generation skipped employee without base salary",
				"run_id", result.RunID, "employee_id", emp.ID)
		default:
			pending = append(pending, emp)
		}
	}
	result.EligibleCount = len(pending)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, emp := range pending {
		g.Go(func() error {
			created, err := s.generateForEmployee(ctx, emp, settings, month, year)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.FailedCount++
				result.FailedEmployeeIDs = append(result.FailedEmployeeIDs, emp.ID)
				slog.Error("Payroll generation failed for employee",
					"run_id", result.RunID, "employee_id", emp.ID, "error", err)
			case !created:
				// Another run inserted the slip after the pre-check
				result.SkippedExisting++
			default:
				result.GeneratedCount++
			}
			// Per-employee failures never abort the batch
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.FailedEmployeeIDs)

	slog.Info("Payroll generation finished",
		"run_id", result.RunID,
		"company_id", companyID,
		"generated", result.GeneratedCount,
		"skipped_existing", result.SkippedExisting,
		"skipped_no_salary", result.SkippedNoSalary,
		"failed", result.FailedCount,
		"duration", time.Since(start),
	)

	return result, nil
}

func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, emp employee.Employee, settings statutory.Settings, month, year int) (bool, error) {
	slip, err := s.buildSlip(ctx, emp, settings, month, year, decimal.Zero)
	if err != nil {
		return false, err
	}

	_, created, err := s.payrollRepo.CreateSlipIfAbsent(ctx, slip)
	if err != nil {
		return false, err
	}
	return created, nil
}

// buildSlip runs the leave accrual and breakdown calculators for one employee.
func (s *PayrollServiceImpl) buildSlip(ctx context.Context, emp employee.Employee, settings statutory.Settings, month, year int, arrears decimal.Decimal) (payroll.SalarySlip, error) {
	components, _, err := ComponentsFor(ctx, s.payrollRepo, emp)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	periodEnd := payroll.PeriodStart(month, year).AddDate(0, 1, 0).Add(-time.Nanosecond)
	requests, err := s.leaveRequestRepo.ListApprovedByEmployee(ctx, emp.ID, periodEnd)
	if err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to get leave requests: %w", err)
	}

	accrual := s.accrual.Calculate(emp.HireDate, requests, month, year)
	lopDays := decimal.NewFromFloat(accrual.LOPDays)

	breakdown := Calculate(payroll.BreakdownInput{
		Components:  components,
		LWPDays:     lopDays,
		DaysInMonth: payroll.DaysInMonth(month, year),
		Settings:    settings,
		Arrears:     arrears,
	})

	return payroll.SalarySlip{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		Month:        month,
		Year:         year,
		LOPDays:      lopDays,
		AmountPaid:   AmountPayable(breakdown.NetPayable),
		Breakdown:    breakdown,
		Status:       payroll.SlipStatusGenerated,
		EmployeeName: &emp.FullName,
		EmployeeCode: &emp.EmployeeCode,
	}, nil
}

func (s *PayrollServiceImpl) CreateSlip(ctx context.Context, companyID string, req payroll.CreateSlipRequest) (payroll.SalarySlipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalarySlipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}
	if !emp.IsActive() {
		return payroll.SalarySlipResponse{}, payroll.ErrEmployeeNotActive
	}
	if !emp.HasBaseSalary() {
		return payroll.SalarySlipResponse{}, payroll.ErrEmployeeHasNoBaseSalary
	}

	settings, err := s.statutoryService.Resolve(ctx, companyID)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}

	slip, err := s.buildSlip(ctx, emp, settings, req.Month, req.Year, req.ArrearsOrZero())
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}

	created, ok, err := s.payrollRepo.CreateSlipIfAbsent(ctx, slip)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}
	if !ok {
		return payroll.SalarySlipResponse{}, payroll.ErrSalarySlipAlreadyExists
	}

	created.EmployeeName = slip.EmployeeName
	created.EmployeeCode = slip.EmployeeCode
	return mapToSlipResponse(created), nil
}

func (s *PayrollServiceImpl) PreviewSlip(ctx context.Context, companyID string, req payroll.CreateSlipRequest) (payroll.SlipPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SlipPreviewResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.SlipPreviewResponse{}, err
	}

	settings, err := s.statutoryService.Resolve(ctx, companyID)
	if err != nil {
		return payroll.SlipPreviewResponse{}, err
	}

	slip, err := s.buildSlip(ctx, emp, settings, req.Month, req.Year, req.ArrearsOrZero())
	if err != nil {
		return payroll.SlipPreviewResponse{}, err
	}

	return payroll.SlipPreviewResponse{
		EmployeeID: slip.EmployeeID,
		Month:      slip.Month,
		Year:       slip.Year,
		LOPDays:    slip.LOPDays,
		AmountPaid: slip.AmountPaid,
		Breakdown:  slip.Breakdown,
	}, nil
}

// ========== SLIPS ==========

func (s *PayrollServiceImpl) GetSlip(ctx context.Context, companyID string, id string) (payroll.SalarySlipResponse, error) {
	slip, err := s.payrollRepo.GetSlipByID(ctx, id, companyID)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}
	return mapToSlipResponse(slip), nil
}

func (s *PayrollServiceImpl) ListSlips(ctx context.Context, companyID string, filter payroll.SlipFilter) (payroll.ListSlipResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListSlipResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	slips, totalCount, err := s.payrollRepo.ListSlips(ctx, companyID, filter)
	if err != nil {
		return payroll.ListSlipResponse{}, err
	}

	return payroll.ListSlipResponse{
		Data:       mapToSlipResponses(slips),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, companyID string, req payroll.MarkPaidRequest) (payroll.MarkPaidResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.MarkPaidResponse{}, err
	}

	updated, err := s.payrollRepo.MarkSlipsPaid(ctx, req.SlipIDs, companyID, s.now())
	if err != nil {
		return payroll.MarkPaidResponse{}, err
	}

	return payroll.MarkPaidResponse{Requested: len(req.SlipIDs), Updated: updated}, nil
}

// VoidSlip cancels a GENERATED slip so the period can be generated again.
func (s *PayrollServiceImpl) VoidSlip(ctx context.Context, companyID string, id string) (payroll.SalarySlipResponse, error) {
	slip, err := s.payrollRepo.GetSlipByID(ctx, id, companyID)
	if err != nil {
		return payroll.SalarySlipResponse{}, err
	}

	switch slip.Status {
	case payroll.SlipStatusPaid:
		return payroll.SalarySlipResponse{}, payroll.ErrSalarySlipAlreadyPaid
	case payroll.SlipStatusVoid:
		return payroll.SalarySlipResponse{}, payroll.ErrSalarySlipNotVoidable
	}

	if err := s.payrollRepo.VoidSlip(ctx, id, companyID); err != nil {
		return payroll.SalarySlipResponse{}, err
	}

	return s.GetSlip(ctx, companyID, id)
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	req := payroll.GenerateSlipsRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return s.payrollRepo.GetSummary(ctx, companyID, month, year)
}

// ========== HELPERS ==========

func mapToSlipResponse(slip payroll.SalarySlip) payroll.SalarySlipResponse {
	var paidAtStr *string
	if slip.PaidAt != nil {
		str := slip.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	employeeName := ""
	employeeCode := ""
	if slip.EmployeeName != nil {
		employeeName = *slip.EmployeeName
	}
	if slip.EmployeeCode != nil {
		employeeCode = *slip.EmployeeCode
	}

	return payroll.SalarySlipResponse{
		ID:           slip.ID,
		EmployeeID:   slip.EmployeeID,
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		Month:        slip.Month,
		Year:         slip.Year,
		LOPDays:      slip.LOPDays,
		AmountPaid:   slip.AmountPaid,
		Status:       string(slip.Status),
		PaidAt:       paidAtStr,
		Breakdown:    slip.Breakdown,
		CreatedAt:    slip.CreatedAt.Format(time.RFC3339),
	}
}

func mapToSlipResponses(slips []payroll.SalarySlip) []payroll.SalarySlipResponse {
	result := make([]payroll.SalarySlipResponse, 0, len(slips))
	for _, slip := range slips {
		result = append(result, mapToSlipResponse(slip))
	}
	return result
}
