package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/lock"
)

type fakePayrollRepo struct {
	mu         sync.Mutex
	seq        int
	components map[string]payroll.SalaryComponents
	slips      map[string]payroll.SalarySlip
	failOn     map[string]error
	// conflictOn simulates a concurrent run winning the insert
	conflictOn map[string]bool
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		components: make(map[string]payroll.SalaryComponents),
		slips:      make(map[string]payroll.SalarySlip),
		failOn:     make(map[string]error),
		conflictOn: make(map[string]bool),
	}
}

func (f *fakePayrollRepo) GetSalaryComponents(_ context.Context, employeeID string) (payroll.SalaryComponents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.components[employeeID]
	if !ok {
		return payroll.SalaryComponents{}, payroll.ErrSalaryComponentsNotFound
	}
	return c, nil
}

func (f *fakePayrollRepo) UpsertSalaryComponents(_ context.Context, c payroll.SalaryComponents) (payroll.SalaryComponents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.components[c.EmployeeID] = c
	return c, nil
}

func (f *fakePayrollRepo) CreateSlipIfAbsent(_ context.Context, slip payroll.SalarySlip) (payroll.SalarySlip, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[slip.EmployeeID]; err != nil {
		return payroll.SalarySlip{}, false, err
	}
	if f.conflictOn[slip.EmployeeID] {
		return payroll.SalarySlip{}, false, nil
	}
	for _, existing := range f.slips {
		if existing.EmployeeID == slip.EmployeeID && existing.Month == slip.Month &&
			existing.Year == slip.Year && existing.Status != payroll.SlipStatusVoid {
			return payroll.SalarySlip{}, false, nil
		}
	}
	f.seq++
	slip.ID = fmt.Sprintf("slip-%d", f.seq)
	slip.CreatedAt = time.Now()
	f.slips[slip.ID] = slip
	return slip, true, nil
}

func (f *fakePayrollRepo) GetSlipByID(_ context.Context, id string, companyID string) (payroll.SalarySlip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slip, ok := f.slips[id]
	if !ok || slip.CompanyID != companyID {
		return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
	}
	return slip, nil
}

func (f *fakePayrollRepo) GetActiveSlipForPeriod(_ context.Context, employeeID string, companyID string, month, year int) (payroll.SalarySlip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slip := range f.slips {
		if slip.EmployeeID == employeeID && slip.CompanyID == companyID && slip.Month == month &&
			slip.Year == year && slip.Status != payroll.SlipStatusVoid {
			return slip, nil
		}
	}
	return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
}

func (f *fakePayrollRepo) ListSlipEmployeeIDs(_ context.Context, companyID string, month, year int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, slip := range f.slips {
		if slip.CompanyID == companyID && slip.Month == month && slip.Year == year && slip.Status != payroll.SlipStatusVoid {
			ids = append(ids, slip.EmployeeID)
		}
	}
	return ids, nil
}

func (f *fakePayrollRepo) ListSlips(_ context.Context, companyID string, filter payroll.SlipFilter) ([]payroll.SalarySlip, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.SalarySlip
	for _, slip := range f.slips {
		if slip.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(slip.Status) != *filter.Status {
			continue
		}
		result = append(result, slip)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) MarkSlipsPaid(_ context.Context, ids []string, companyID string, paidAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, id := range ids {
		slip, ok := f.slips[id]
		if !ok || slip.CompanyID != companyID || slip.Status != payroll.SlipStatusGenerated {
			continue
		}
		slip.Status = payroll.SlipStatusPaid
		slip.PaidAt = &paidAt
		f.slips[id] = slip
		updated++
	}
	return updated, nil
}

func (f *fakePayrollRepo) VoidSlip(_ context.Context, id string, companyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slip, ok := f.slips[id]
	if !ok || slip.CompanyID != companyID {
		return payroll.ErrSalarySlipNotFound
	}
	if slip.Status != payroll.SlipStatusGenerated {
		return payroll.ErrSalarySlipNotVoidable
	}
	slip.Status = payroll.SlipStatusVoid
	f.slips[id] = slip
	return nil
}

func (f *fakePayrollRepo) GetSummary(_ context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	return payroll.PayrollSummaryResponse{Month: month, Year: year}, nil
}

func (f *fakePayrollRepo) countGenerated(month, year int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, slip := range f.slips {
		if slip.Month == month && slip.Year == year && slip.Status != payroll.SlipStatusVoid {
			n++
		}
	}
	return n
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id && emp.CompanyID == companyID {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, emp := range f.employees {
		if emp.CompanyID == companyID && emp.IsActive() {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (f *fakeEmployeeRepo) ListCompanyIDsWithActiveEmployees(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, emp := range f.employees {
		if emp.IsActive() && !seen[emp.CompanyID] {
			seen[emp.CompanyID] = true
			ids = append(ids, emp.CompanyID)
		}
	}
	return ids, nil
}

func (f *fakeEmployeeRepo) Deactivate(_ context.Context, id string, companyID string, status employee.EmploymentStatus, resignationDate time.Time) error {
	for i, emp := range f.employees {
		if emp.ID == id && emp.CompanyID == companyID {
			if !emp.IsActive() {
				return employee.ErrEmployeeAlreadyInactive
			}
			f.employees[i].EmploymentStatus = status
			f.employees[i].ResignationDate = &resignationDate
			return nil
		}
	}
	return employee.ErrEmployeeNotFound
}

type fakeLeaveRepo struct {
	requests map[string][]leave.LeaveRequest
}

func (f *fakeLeaveRepo) ListApprovedByEmployee(_ context.Context, employeeID string, until time.Time) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, req := range f.requests[employeeID] {
		if req.IsApproved() && !req.StartDate.After(until) {
			result = append(result, req)
		}
	}
	return result, nil
}

type fakeStatutoryService struct {
	settings *statutory.Settings
}

func (f *fakeStatutoryService) Resolve(_ context.Context, companyID string) (statutory.Settings, error) {
	if f.settings != nil {
		return *f.settings, nil
	}
	return statutory.Defaults(companyID), nil
}

func (f *fakeStatutoryService) GetSettings(ctx context.Context, companyID string) (statutory.SettingsResponse, error) {
	s, err := f.Resolve(ctx, companyID)
	return statutory.NewSettingsResponse(s), err
}

func (f *fakeStatutoryService) UpdateSettings(ctx context.Context, companyID string, req statutory.UpdateSettingsRequest) (statutory.SettingsResponse, error) {
	return f.GetSettings(ctx, companyID)
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (lock.ReleaseFunc, error) {
	return nil, lock.ErrNotAcquired
}
