package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	employeeRepo   employee.EmployeeRepository
	payrollService payroll.PayrollService
	interval       time.Duration
	dayOfMonth     int
	now            func() time.Time
}

func NewPayrollJobs(
	employeeRepo employee.EmployeeRepository,
	payrollService payroll.PayrollService,
	interval time.Duration,
	dayOfMonth int,
) *PayrollJobs {
	return &PayrollJobs{
		employeeRepo:   employeeRepo,
		payrollService: payrollService,
		interval:       interval,
		dayOfMonth:     dayOfMonth,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_previous_month_slips", j.interval, j.GeneratePreviousMonth)
}

// GeneratePreviousMonth generates last month's slips for every company with
// active employees. It only acts on the configured day of the month; repeated
// runs on that day are no-ops because generation skips existing slips.
func (j *PayrollJobs) GeneratePreviousMonth(ctx context.Context) error {
	now := j.now().UTC()
	if now.Day() != j.dayOfMonth {
		return nil
	}

	previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	month, year := int(previous.Month()), previous.Year()

	companyIDs, err := j.employeeRepo.ListCompanyIDsWithActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	slog.Info("Cron: Starting payroll generation", "month", month, "year", year, "companies", len(companyIDs))

	var errs []error
	for _, companyID := range companyIDs {
		result, err := j.payrollService.GenerateSlips(ctx, companyID, month, year)
		if errors.Is(err, payroll.ErrGenerationInProgress) {
			slog.Info("Cron: Payroll generation already running", "company_id", companyID)
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		slog.Info("Cron: Payroll generated",
			"company_id", companyID,
			"run_id", result.RunID,
			"generated", result.GeneratedCount,
			"failed", result.FailedCount,
		)
	}

	return errors.Join(errs...)
}
