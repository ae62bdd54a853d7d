package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
)

type statutoryRepository struct {
	db *database.DB
}

func NewStatutoryRepository(db *database.DB) statutory.StatutoryRepository {
	return &statutoryRepository{db: db}
}

func (r *statutoryRepository) GetByCompanyID(ctx context.Context, companyID string) (statutory.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, pf_employee_rate, pf_employer_rate, pf_ceiling_amount,
			   esic_employee_rate, esic_employer_rate, esic_limit_amount, pt_enabled,
			   created_at, updated_at
		FROM statutory_settings
		WHERE company_id = $1
	`

	var s statutory.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.PFEmployeeRate, &s.PFEmployerRate, &s.PFCeilingAmount,
		&s.ESICEmployeeRate, &s.ESICEmployerRate, &s.ESICLimitAmount, &s.PTEnabled,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return statutory.Settings{}, statutory.ErrSettingsNotFound
		}
		return statutory.Settings{}, fmt.Errorf("failed to get statutory settings: %w", err)
	}

	return s, nil
}

func (r *statutoryRepository) Upsert(ctx context.Context, settings statutory.Settings) (statutory.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO statutory_settings (
			company_id, pf_employee_rate, pf_employer_rate, pf_ceiling_amount,
			esic_employee_rate, esic_employer_rate, esic_limit_amount, pt_enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			pf_employee_rate = EXCLUDED.pf_employee_rate,
			pf_employer_rate = EXCLUDED.pf_employer_rate,
			pf_ceiling_amount = EXCLUDED.pf_ceiling_amount,
			esic_employee_rate = EXCLUDED.esic_employee_rate,
			esic_employer_rate = EXCLUDED.esic_employer_rate,
			esic_limit_amount = EXCLUDED.esic_limit_amount,
			pt_enabled = EXCLUDED.pt_enabled,
			updated_at = NOW()
		RETURNING id, company_id, pf_employee_rate, pf_employer_rate, pf_ceiling_amount,
			esic_employee_rate, esic_employer_rate, esic_limit_amount, pt_enabled,
			created_at, updated_at
	`

	var s statutory.Settings
	err := q.QueryRow(ctx, query,
		settings.CompanyID, settings.PFEmployeeRate, settings.PFEmployerRate, settings.PFCeilingAmount,
		settings.ESICEmployeeRate, settings.ESICEmployerRate, settings.ESICLimitAmount, settings.PTEnabled,
	).Scan(
		&s.ID, &s.CompanyID, &s.PFEmployeeRate, &s.PFEmployerRate, &s.PFCeilingAmount,
		&s.ESICEmployeeRate, &s.ESICEmployerRate, &s.ESICLimitAmount, &s.PTEnabled,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return statutory.Settings{}, fmt.Errorf("failed to upsert statutory settings: %w", err)
	}

	return s, nil
}
