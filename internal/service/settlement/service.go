package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/settlement"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
	payrollService "github.com/periodica-hq/bizops-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
)

var (
	dayDivisor          = decimal.NewFromInt(settlement.SettlementDayDivisor)
	gratuityDaysPerYear = decimal.NewFromInt(settlement.GratuityDaysPerYear)
	gratuityWorkingDays = decimal.NewFromInt(settlement.GratuityWorkingDays)
)

type SettlementServiceImpl struct {
	transactor       database.Transactor
	settlementRepo   settlement.SettlementRepository
	employeeRepo     employee.EmployeeRepository
	payrollRepo      payroll.PayrollRepository
	statutoryService statutory.StatutoryService
}

func NewSettlementService(
	transactor database.Transactor,
	settlementRepo settlement.SettlementRepository,
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	statutoryService statutory.StatutoryService,
) settlement.SettlementService {
	return &SettlementServiceImpl{
		transactor:       transactor,
		settlementRepo:   settlementRepo,
		employeeRepo:     employeeRepo,
		payrollRepo:      payrollRepo,
		statutoryService: statutoryService,
	}
}

func (s *SettlementServiceImpl) Settle(ctx context.Context, companyID string, req settlement.CreateSettlementRequest) (settlement.SettlementResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.SettlementResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return settlement.SettlementResponse{}, err
	}

	_, err = s.settlementRepo.GetByEmployeeID(ctx, emp.ID, companyID)
	if err == nil {
		return settlement.SettlementResponse{}, settlement.ErrSettlementAlreadyExists
	}
	if !errors.Is(err, settlement.ErrSettlementNotFound) {
		return settlement.SettlementResponse{}, err
	}

	if !emp.IsActive() {
		return settlement.SettlementResponse{}, employee.ErrEmployeeAlreadyInactive
	}
	lastWorkingDay := req.LastWorkingDate
	if emp.HireDate != nil && lastWorkingDay.Before(*emp.HireDate) {
		return settlement.SettlementResponse{}, settlement.ErrLastWorkingDayBeforeHire
	}

	components, _, err := payrollService.ComponentsFor(ctx, s.payrollRepo, emp)
	if err != nil {
		return settlement.SettlementResponse{}, err
	}
	settings, err := s.statutoryService.Resolve(ctx, companyID)
	if err != nil {
		return settlement.SettlementResponse{}, err
	}

	// A final month already covered by a slip is not paid again
	var finalMonthSlip *payroll.SalarySlip
	slip, err := s.payrollRepo.GetActiveSlipForPeriod(ctx, emp.ID, companyID,
		int(lastWorkingDay.Month()), lastWorkingDay.Year())
	switch {
	case err == nil:
		finalMonthSlip = &slip
	case !errors.Is(err, payroll.ErrSalarySlipNotFound):
		return settlement.SettlementResponse{}, err
	}

	record := compute(emp, components, settings, req, finalMonthSlip)

	var created settlement.FinalSettlement
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.settlementRepo.Create(txCtx, record)
		if err != nil {
			return err
		}
		return s.employeeRepo.Deactivate(txCtx, emp.ID, companyID, employee.EmploymentStatusResigned, lastWorkingDay)
	})
	if err != nil {
		return settlement.SettlementResponse{}, err
	}

	slog.Info("Final settlement issued",
		"employee_id", emp.ID,
		"company_id", companyID,
		"last_working_day", lastWorkingDay.Format("2006-01-02"),
		"net_payable", created.NetPayable.String(),
		"final_month_paid_by_slip", finalMonthSlip != nil,
	)

	created.EmployeeName = &emp.FullName
	return settlement.NewSettlementResponse(created), nil
}

func (s *SettlementServiceImpl) GetByEmployeeID(ctx context.Context, companyID string, employeeID string) (settlement.SettlementResponse, error) {
	record, err := s.settlementRepo.GetByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return settlement.SettlementResponse{}, err
	}
	return settlement.NewSettlementResponse(record), nil
}

// compute builds the settlement record. Days after the last working day in the
// final month are unpaid, and the daily rate always divides by 30. When
// finalMonthSlip is set the final month is left out of the settlement.
func compute(emp employee.Employee, components payroll.SalaryComponents, settings statutory.Settings, req settlement.CreateSettlementRequest, finalMonthSlip *payroll.SalarySlip) settlement.FinalSettlement {
	lastWorkingDay := req.LastWorkingDate

	var finalMonth payroll.Breakdown
	var finalMonthSlipID *string
	if finalMonthSlip != nil {
		finalMonthSlipID = &finalMonthSlip.ID
	} else {
		month, year := int(lastWorkingDay.Month()), lastWorkingDay.Year()
		daysInMonth := payroll.DaysInMonth(month, year)
		unpaidDays := daysInMonth - lastWorkingDay.Day()

		finalMonth = payrollService.Calculate(payroll.BreakdownInput{
			Components:  components,
			LWPDays:     decimal.NewFromInt(int64(unpaidDays)),
			DaysInMonth: daysInMonth,
			Settings:    settings,
			Arrears:     decimal.Zero,
		})
	}

	dailyRate := components.Total().Div(dayDivisor).Round(2)
	encashment := req.LeaveEncashmentDays.Mul(dailyRate).Round(2)

	gratuity := StatutoryGratuity(components.Basic, emp.HireDate, lastWorkingDay)
	if req.Gratuity != nil {
		gratuity = *req.Gratuity
	}

	noticeRecovery := decimal.Zero
	if !req.NoticeServed {
		noticeRecovery = dailyRate.Mul(decimal.NewFromInt(int64(req.NoticeShortfallDays))).Round(2)
	}

	net := decimal.Sum(finalMonth.NetPayable, encashment, req.Bonus, gratuity, req.OtherDues).
		Sub(req.Deductions).
		Sub(noticeRecovery)

	return settlement.FinalSettlement{
		EmployeeID:          emp.ID,
		CompanyID:           emp.CompanyID,
		LastWorkingDay:      lastWorkingDay,
		NoticeServed:        req.NoticeServed,
		NoticeShortfallDays: req.NoticeShortfallDays,
		LeaveEncashmentDays: req.LeaveEncashmentDays,
		DailyRate:           dailyRate,
		LeaveEncashment:     encashment,
		Bonus:               req.Bonus,
		Gratuity:            gratuity,
		OtherDues:           req.OtherDues,
		Deductions:          req.Deductions,
		NoticeRecovery:      noticeRecovery,
		NetPayable:          payrollService.AmountPayable(net),
		FinalMonth:          finalMonth,
		FinalMonthSlipID:    finalMonthSlipID,
	}
}

// StatutoryGratuity is 15/26 of monthly Basic per completed year of service,
// payable only after the minimum qualifying service.
func StatutoryGratuity(basic decimal.Decimal, hireDate *time.Time, lastWorkingDay time.Time) decimal.Decimal {
	if hireDate == nil {
		return decimal.Zero
	}
	years := completedYears(*hireDate, lastWorkingDay)
	if years < settlement.GratuityMinServiceYears {
		return decimal.Zero
	}
	return basic.Mul(gratuityDaysPerYear).
		Div(gratuityWorkingDays).
		Mul(decimal.NewFromInt(int64(years))).
		Round(2)
}

func completedYears(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
