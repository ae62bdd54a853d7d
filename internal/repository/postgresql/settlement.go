package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/settlement"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
)

const uniqueViolation = "23505"

type settlementRepository struct {
	db *database.DB
}

func NewSettlementRepository(db *database.DB) settlement.SettlementRepository {
	return &settlementRepository{db: db}
}

const settlementColumns = `fs.id, fs.employee_id, fs.company_id, fs.last_working_day, fs.notice_served,
	fs.notice_shortfall_days, fs.leave_encashment_days, fs.daily_rate, fs.leave_encashment,
	fs.bonus, fs.gratuity, fs.other_dues, fs.deductions, fs.notice_recovery, fs.net_payable,
	fs.final_month, fs.final_month_slip_id, fs.created_at`

func scanSettlement(row pgx.Row, extra ...any) (settlement.FinalSettlement, error) {
	var s settlement.FinalSettlement
	var finalMonthBytes []byte
	dest := []any{
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.LastWorkingDay, &s.NoticeServed,
		&s.NoticeShortfallDays, &s.LeaveEncashmentDays, &s.DailyRate, &s.LeaveEncashment,
		&s.Bonus, &s.Gratuity, &s.OtherDues, &s.Deductions, &s.NoticeRecovery, &s.NetPayable,
		&finalMonthBytes, &s.FinalMonthSlipID, &s.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return settlement.FinalSettlement{}, err
	}
	if err := json.Unmarshal(finalMonthBytes, &s.FinalMonth); err != nil {
		return settlement.FinalSettlement{}, fmt.Errorf("failed to decode final month breakdown: %w", err)
	}
	return s, nil
}

func (r *settlementRepository) Create(ctx context.Context, s settlement.FinalSettlement) (settlement.FinalSettlement, error) {
	q := GetQuerier(ctx, r.db)

	finalMonthJSON, err := json.Marshal(s.FinalMonth)
	if err != nil {
		return settlement.FinalSettlement{}, fmt.Errorf("failed to encode final month breakdown: %w", err)
	}

	query := `
		INSERT INTO final_settlements AS fs (
			employee_id, company_id, last_working_day, notice_served, notice_shortfall_days,
			leave_encashment_days, daily_rate, leave_encashment, bonus, gratuity, other_dues,
			deductions, notice_recovery, net_payable, final_month, final_month_slip_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + settlementColumns

	created, err := scanSettlement(q.QueryRow(ctx, query,
		s.EmployeeID, s.CompanyID, s.LastWorkingDay, s.NoticeServed, s.NoticeShortfallDays,
		s.LeaveEncashmentDays, s.DailyRate, s.LeaveEncashment, s.Bonus, s.Gratuity, s.OtherDues,
		s.Deductions, s.NoticeRecovery, s.NetPayable, finalMonthJSON, s.FinalMonthSlipID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "uk_final_settlement_employee" {
			return settlement.FinalSettlement{}, settlement.ErrSettlementAlreadyExists
		}
		return settlement.FinalSettlement{}, fmt.Errorf("failed to create final settlement: %w", err)
	}

	return created, nil
}

func (r *settlementRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (settlement.FinalSettlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settlementColumns + `, e.full_name as employee_name
		FROM final_settlements fs
		JOIN employees e ON fs.employee_id = e.id
		WHERE fs.employee_id = $1 AND fs.company_id = $2
	`

	var name *string
	s, err := scanSettlement(q.QueryRow(ctx, query, employeeID, companyID), &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settlement.FinalSettlement{}, settlement.ErrSettlementNotFound
		}
		return settlement.FinalSettlement{}, fmt.Errorf("failed to get final settlement: %w", err)
	}
	s.EmployeeName = name

	return s, nil
}
