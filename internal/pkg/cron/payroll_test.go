package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/employee"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployeeRepo struct {
	employee.EmployeeRepository
	companyIDs []string
}

func (s *stubEmployeeRepo) ListCompanyIDsWithActiveEmployees(context.Context) ([]string, error) {
	return s.companyIDs, nil
}

type generateCall struct {
	companyID   string
	month, year int
}

type stubPayrollService struct {
	payroll.PayrollService
	mu    sync.Mutex
	calls []generateCall
	errs  map[string]error
}

func (s *stubPayrollService) GenerateSlips(_ context.Context, companyID string, month, year int) (payroll.GenerateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, generateCall{companyID, month, year})
	if err := s.errs[companyID]; err != nil {
		return payroll.GenerateResult{}, err
	}
	return payroll.GenerateResult{CompanyID: companyID, Month: month, Year: year}, nil
}

func newPayrollJobsAt(now time.Time, svc *stubPayrollService, companies ...string) *PayrollJobs {
	j := NewPayrollJobs(&stubEmployeeRepo{companyIDs: companies}, svc, time.Hour, 1)
	j.now = func() time.Time { return now }
	return j
}

func TestPayrollJobs_GeneratePreviousMonth_OnConfiguredDay(t *testing.T) {
	svc := &stubPayrollService{}
	j := newPayrollJobsAt(time.Date(2025, time.January, 1, 2, 0, 0, 0, time.UTC), svc, "company-a", "company-b")

	// Act
	err := j.GeneratePreviousMonth(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []generateCall{
		{"company-a", 12, 2024},
		{"company-b", 12, 2024},
	}, svc.calls)
}

func TestPayrollJobs_GeneratePreviousMonth_OtherDaysAreNoop(t *testing.T) {
	svc := &stubPayrollService{}
	j := newPayrollJobsAt(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), svc, "company-a")

	err := j.GeneratePreviousMonth(context.Background())

	require.NoError(t, err)
	assert.Empty(t, svc.calls)
}

func TestPayrollJobs_GeneratePreviousMonth_ContinuesPastFailures(t *testing.T) {
	svc := &stubPayrollService{errs: map[string]error{
		"company-a": errors.New("database unavailable"),
		"company-b": payroll.ErrGenerationInProgress,
	}}
	j := newPayrollJobsAt(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), svc, "company-a", "company-b", "company-c")

	err := j.GeneratePreviousMonth(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "company-a")
	assert.NotContains(t, err.Error(), "company-b")
	assert.Len(t, svc.calls, 3)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.AddJob("ok", time.Minute, func(context.Context) error { ran++; return nil })
	s.AddJob("broken", time.Minute, func(context.Context) error { ran++; return errors.New("boom") })
	s.AddJob("disabled", 0, func(context.Context) error { ran++; return nil })

	err := s.RunOnce(context.Background())

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2, ran)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
