package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/leave"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/lock"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
	leaveService "github.com/periodica-hq/bizops-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

type payrollFixture struct {
	svc       payroll.PayrollService
	payroll   *fakePayrollRepo
	employees *fakeEmployeeRepo
	leaves    *fakeLeaveRepo
	statutory *fakeStatutoryService
}

func newPayrollFixture(locker lock.Locker, employees ...employee.Employee) *payrollFixture {
	f := &payrollFixture{
		payroll:   newFakePayrollRepo(),
		employees: &fakeEmployeeRepo{employees: employees},
		leaves:    &fakeLeaveRepo{requests: make(map[string][]leave.LeaveRequest)},
		statutory: &fakeStatutoryService{},
	}
	f.svc = NewPayrollService(
		f.payroll,
		f.employees,
		f.leaves,
		f.statutory,
		leaveService.NewAccrualCalculator(leave.DefaultAccrualPolicy()),
		locker,
		Options{Workers: 3},
	)
	return f
}

func newEmployee(id string, salary string) employee.Employee {
	hire := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	emp := employee.Employee{
		ID:               id,
		CompanyID:        testCompanyID,
		EmployeeCode:     "EMP-" + id,
		FullName:         "Employee " + id,
		HireDate:         &hire,
		EmploymentStatus: employee.EmploymentStatusActive,
	}
	if salary != "" {
		base := decimal.RequireFromString(salary)
		emp.BaseSalary = &base
	}
	return emp
}

func TestPayrollService_GenerateSlips_Idempotent(t *testing.T) {
	f := newPayrollFixture(nil,
		newEmployee("a", "30000"),
		newEmployee("b", "18000"),
		newEmployee("c", ""),
	)
	ctx := context.Background()

	// Act
	first, err := f.svc.GenerateSlips(ctx, testCompanyID, 4, 2025)
	require.NoError(t, err)
	second, err := f.svc.GenerateSlips(ctx, testCompanyID, 4, 2025)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, first.GeneratedCount)
	assert.Equal(t, 1, first.SkippedNoSalary)
	assert.Equal(t, 0, first.FailedCount)
	assert.NotEmpty(t, first.RunID)

	assert.Equal(t, 0, second.GeneratedCount)
	assert.Equal(t, 2, second.SkippedExisting)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 2, f.payroll.countGenerated(4, 2025))
}

func TestPayrollService_GenerateSlips_FailureDoesNotAbortBatch(t *testing.T) {
	f := newPayrollFixture(nil,
		newEmployee("a", "30000"),
		newEmployee("b", "30000"),
		newEmployee("c", "30000"),
	)
	f.payroll.failOn["b"] = errors.New("connection reset")

	result, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 4, 2025)

	require.NoError(t, err)
	assert.Equal(t, 3, result.EligibleCount)
	assert.Equal(t, 2, result.GeneratedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, []string{"b"}, result.FailedEmployeeIDs)
}

func TestPayrollService_GenerateSlips_ConcurrentInsertCountedAsExisting(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"), newEmployee("b", "30000"))
	f.payroll.conflictOn["a"] = true

	result, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 4, 2025)

	require.NoError(t, err)
	assert.Equal(t, 1, result.GeneratedCount)
	assert.Equal(t, 1, result.SkippedExisting)
}

func TestPayrollService_GenerateSlips_AppliesLOP(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))
	f.payroll.components["a"] = payroll.SalaryComponents{
		EmployeeID: "a",
		Basic:      decimal.NewFromInt(20000),
		HRA:        decimal.NewFromInt(10000),
	}
	hire := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	f.employees.employees[0].HireDate = &hire
	f.leaves.requests["a"] = []leave.LeaveRequest{
		{StartDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, time.February, 11, 0, 0, 0, 0, time.UTC), Status: leave.LeaveRequestStatusApproved},
		{StartDate: time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, time.April, 11, 0, 0, 0, 0, time.UTC), Status: leave.LeaveRequestStatusApproved},
	}

	result, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 4, 2025)
	require.NoError(t, err)
	require.Equal(t, 1, result.GeneratedCount)

	list, err := f.svc.ListSlips(context.Background(), testCompanyID, payroll.SlipFilter{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	slip := list.Data[0]

	assert.True(t, slip.LOPDays.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 30, slip.Breakdown.DaysInMonth)
	assert.True(t, slip.Breakdown.LWPDeduction.Equal(decimal.NewFromInt(1000)))
	assert.True(t, slip.Breakdown.AdjustedGross.Equal(decimal.NewFromInt(29000)), slip.Breakdown.AdjustedGross.String())
	// 29000 - 1800 PF - 200 PT
	assert.True(t, slip.AmountPaid.Equal(decimal.NewFromInt(27000)), slip.AmountPaid.String())
	assert.Equal(t, string(payroll.SlipStatusGenerated), slip.Status)
}

func TestPayrollService_GenerateSlips_ClampsNegativeNet(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "8000"))
	settings := statutory.Defaults(testCompanyID)
	settings.PFEmployeeRate = decimal.NewFromInt(100)
	f.statutory.settings = &settings

	_, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 4, 2025)
	require.NoError(t, err)

	list, err := f.svc.ListSlips(context.Background(), testCompanyID, payroll.SlipFilter{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].Breakdown.NetPayable.IsNegative())
	assert.True(t, list.Data[0].AmountPaid.IsZero())
}

func TestPayrollService_GenerateSlips_LockHeld(t *testing.T) {
	f := newPayrollFixture(heldLocker{}, newEmployee("a", "30000"))

	_, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 4, 2025)

	assert.ErrorIs(t, err, payroll.ErrGenerationInProgress)
	assert.Equal(t, 0, f.payroll.countGenerated(4, 2025))
}

func TestPayrollService_GenerateSlips_InvalidPeriod(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))

	_, err := f.svc.GenerateSlips(context.Background(), testCompanyID, 13, 2019)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestPayrollService_CreateSlip_WithArrearsAndDuplicate(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))
	arrears := decimal.NewFromInt(1500)
	req := payroll.CreateSlipRequest{EmployeeID: "a", Month: 4, Year: 2025, Arrears: &arrears}

	created, err := f.svc.CreateSlip(context.Background(), testCompanyID, req)
	require.NoError(t, err)
	assert.Equal(t, "Employee a", created.EmployeeName)
	assert.True(t, created.Breakdown.Arrears.Equal(arrears))
	// 30000 - 1800 PF - 200 PT + 1500 arrears
	assert.True(t, created.AmountPaid.Equal(decimal.NewFromInt(29500)), created.AmountPaid.String())

	_, err = f.svc.CreateSlip(context.Background(), testCompanyID, req)
	assert.ErrorIs(t, err, payroll.ErrSalarySlipAlreadyExists)
}

func TestPayrollService_CreateSlip_InactiveEmployee(t *testing.T) {
	emp := newEmployee("a", "30000")
	emp.EmploymentStatus = employee.EmploymentStatusResigned
	f := newPayrollFixture(nil, emp)

	_, err := f.svc.CreateSlip(context.Background(), testCompanyID, payroll.CreateSlipRequest{EmployeeID: "a", Month: 4, Year: 2025})

	assert.ErrorIs(t, err, payroll.ErrEmployeeNotActive)
}

func TestPayrollService_PreviewSlip_DoesNotPersist(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))

	preview, err := f.svc.PreviewSlip(context.Background(), testCompanyID, payroll.CreateSlipRequest{EmployeeID: "a", Month: 2, Year: 2025})

	require.NoError(t, err)
	assert.Equal(t, 28, preview.Breakdown.DaysInMonth)
	assert.True(t, preview.AmountPaid.Equal(decimal.NewFromInt(28000)))
	assert.Equal(t, 0, f.payroll.countGenerated(2, 2025))
}

func TestPayrollService_VoidSlip_AllowsRegeneration(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))
	ctx := context.Background()
	created, err := f.svc.CreateSlip(ctx, testCompanyID, payroll.CreateSlipRequest{EmployeeID: "a", Month: 4, Year: 2025})
	require.NoError(t, err)

	voided, err := f.svc.VoidSlip(ctx, testCompanyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.SlipStatusVoid), voided.Status)

	result, err := f.svc.GenerateSlips(ctx, testCompanyID, 4, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, result.GeneratedCount)
}

func TestPayrollService_VoidSlip_PaidRejected(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))
	ctx := context.Background()
	created, err := f.svc.CreateSlip(ctx, testCompanyID, payroll.CreateSlipRequest{EmployeeID: "a", Month: 4, Year: 2025})
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(ctx, testCompanyID, payroll.MarkPaidRequest{SlipIDs: []string{created.ID, "missing"}})
	require.NoError(t, err)
	assert.Equal(t, 2, paid.Requested)
	assert.Equal(t, int64(1), paid.Updated)

	_, err = f.svc.VoidSlip(ctx, testCompanyID, created.ID)
	assert.ErrorIs(t, err, payroll.ErrSalarySlipAlreadyPaid)
}

func TestPayrollService_GetSlip_OtherCompany(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"))
	created, err := f.svc.CreateSlip(context.Background(), testCompanyID, payroll.CreateSlipRequest{EmployeeID: "a", Month: 4, Year: 2025})
	require.NoError(t, err)

	_, err = f.svc.GetSlip(context.Background(), "company-2", created.ID)

	assert.ErrorIs(t, err, payroll.ErrSalarySlipNotFound)
}

func TestPayrollService_SalaryComponents(t *testing.T) {
	f := newPayrollFixture(nil, newEmployee("a", "30000"), newEmployee("b", ""))
	ctx := context.Background()

	derived, err := f.svc.GetSalaryComponents(ctx, testCompanyID, "a")
	require.NoError(t, err)
	assert.True(t, derived.DerivedFromBaseSalary)
	assert.True(t, derived.Basic.Equal(decimal.NewFromInt(30000)))

	_, err = f.svc.GetSalaryComponents(ctx, testCompanyID, "b")
	assert.ErrorIs(t, err, payroll.ErrSalaryComponentsNotFound)

	saved, err := f.svc.UpsertSalaryComponents(ctx, testCompanyID, payroll.UpsertSalaryComponentsRequest{
		EmployeeID: "b",
		Basic:      decimal.NewFromInt(15000),
		HRA:        decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.False(t, saved.DerivedFromBaseSalary)
	assert.True(t, saved.TotalGrossFixed.Equal(decimal.NewFromInt(21000)))

	_, err = f.svc.UpsertSalaryComponents(ctx, "company-2", payroll.UpsertSalaryComponentsRequest{
		EmployeeID: "a",
		Basic:      decimal.NewFromInt(15000),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGenerationLockKey(t *testing.T) {
	assert.Equal(t, "payroll:generate:company-1:2025-04", GenerationLockKey("company-1", 4, 2025))
}
