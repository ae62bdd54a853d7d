package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const slipColumns = `ss.id, ss.employee_id, ss.company_id, ss.month, ss.year, ss.lop_days,
	ss.amount_paid, ss.breakdown, ss.status, ss.paid_at, ss.created_at, ss.updated_at`

func scanSlip(row pgx.Row, extra ...any) (payroll.SalarySlip, error) {
	var s payroll.SalarySlip
	var breakdownBytes []byte
	dest := []any{
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.Month, &s.Year, &s.LOPDays,
		&s.AmountPaid, &breakdownBytes, &s.Status, &s.PaidAt, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return payroll.SalarySlip{}, err
	}
	if err := json.Unmarshal(breakdownBytes, &s.Breakdown); err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to decode slip breakdown: %w", err)
	}
	return s, nil
}

// ========== SALARY COMPONENTS ==========

func (r *payrollRepository) GetSalaryComponents(ctx context.Context, employeeID string) (payroll.SalaryComponents, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, basic, hra, conveyance, medical, special_allowance, other_allowances,
			   created_at, updated_at
		FROM salary_components
		WHERE employee_id = $1
	`

	var c payroll.SalaryComponents
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&c.EmployeeID, &c.Basic, &c.HRA, &c.Conveyance, &c.Medical, &c.SpecialAllowance, &c.OtherAllowances,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryComponents{}, payroll.ErrSalaryComponentsNotFound
		}
		return payroll.SalaryComponents{}, fmt.Errorf("failed to get salary components: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) UpsertSalaryComponents(ctx context.Context, components payroll.SalaryComponents) (payroll.SalaryComponents, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_components (
			employee_id, basic, hra, conveyance, medical, special_allowance, other_allowances
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id) DO UPDATE SET
			basic = EXCLUDED.basic,
			hra = EXCLUDED.hra,
			conveyance = EXCLUDED.conveyance,
			medical = EXCLUDED.medical,
			special_allowance = EXCLUDED.special_allowance,
			other_allowances = EXCLUDED.other_allowances,
			updated_at = NOW()
		RETURNING employee_id, basic, hra, conveyance, medical, special_allowance, other_allowances,
			created_at, updated_at
	`

	var c payroll.SalaryComponents
	err := q.QueryRow(ctx, query,
		components.EmployeeID, components.Basic, components.HRA, components.Conveyance,
		components.Medical, components.SpecialAllowance, components.OtherAllowances,
	).Scan(
		&c.EmployeeID, &c.Basic, &c.HRA, &c.Conveyance, &c.Medical, &c.SpecialAllowance, &c.OtherAllowances,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return payroll.SalaryComponents{}, fmt.Errorf("failed to upsert salary components: %w", err)
	}

	return c, nil
}

// ========== SALARY SLIPS ==========

// CreateSlipIfAbsent relies on the partial unique index uk_salary_slip_period, so
// the existence check and the write are one statement.
func (r *payrollRepository) CreateSlipIfAbsent(ctx context.Context, slip payroll.SalarySlip) (payroll.SalarySlip, bool, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, err := json.Marshal(slip.Breakdown)
	if err != nil {
		return payroll.SalarySlip{}, false, fmt.Errorf("failed to encode slip breakdown: %w", err)
	}

	query := `
		INSERT INTO salary_slips AS ss (
			employee_id, company_id, month, year, lop_days, amount_paid, breakdown, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, month, year) WHERE status <> 'VOID' DO NOTHING
		RETURNING ` + slipColumns

	created, err := scanSlip(q.QueryRow(ctx, query,
		slip.EmployeeID, slip.CompanyID, slip.Month, slip.Year, slip.LOPDays,
		slip.AmountPaid, breakdownJSON, slip.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalarySlip{}, false, nil
		}
		return payroll.SalarySlip{}, false, fmt.Errorf("failed to create salary slip: %w", err)
	}

	return created, true, nil
}

func (r *payrollRepository) GetSlipByID(ctx context.Context, id string, companyID string) (payroll.SalarySlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + slipColumns + `, e.full_name as employee_name, e.employee_code
		FROM salary_slips ss
		JOIN employees e ON ss.employee_id = e.id
		WHERE ss.id = $1 AND ss.company_id = $2
	`

	var name, code *string
	slip, err := scanSlip(q.QueryRow(ctx, query, id, companyID), &name, &code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to get salary slip: %w", err)
	}
	slip.EmployeeName, slip.EmployeeCode = name, code

	return slip, nil
}

func (r *payrollRepository) GetActiveSlipForPeriod(ctx context.Context, employeeID string, companyID string, month, year int) (payroll.SalarySlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + slipColumns + `
		FROM salary_slips ss
		WHERE ss.employee_id = $1 AND ss.company_id = $2
			AND ss.month = $3 AND ss.year = $4 AND ss.status <> 'VOID'
	`

	slip, err := scanSlip(q.QueryRow(ctx, query, employeeID, companyID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalarySlip{}, payroll.ErrSalarySlipNotFound
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to get salary slip for period: %w", err)
	}

	return slip, nil
}

func (r *payrollRepository) ListSlipEmployeeIDs(ctx context.Context, companyID string, month, year int) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM salary_slips
		WHERE company_id = $1 AND month = $2 AND year = $3 AND status <> 'VOID'
	`

	rows, err := q.Query(ctx, query, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list slip employees: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan slip employees: %w", err)
	}

	return ids, nil
}

func (r *payrollRepository) ListSlips(ctx context.Context, companyID string, filter payroll.SlipFilter) ([]payroll.SalarySlip, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM salary_slips ss
		JOIN employees e ON ss.employee_id = e.id
		WHERE ss.company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND ss.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND ss.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND ss.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND ss.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary slips: %w", err)
	}

	// Sort
	sortColumn := "ss.created_at"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":    "ss.created_at",
			"period":        "ss.year DESC, ss.month",
			"employee_name": "e.full_name",
			"amount_paid":   "ss.amount_paid",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name as employee_name, e.employee_code
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, slipColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary slips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.SalarySlip
	for rows.Next() {
		var name, code *string
		slip, err := scanSlip(rows, &name, &code)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary slip: %w", err)
		}
		slip.EmployeeName, slip.EmployeeCode = name, code
		slips = append(slips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list salary slips: %w", err)
	}

	return slips, totalCount, nil
}

func (r *payrollRepository) MarkSlipsPaid(ctx context.Context, ids []string, companyID string, paidAt time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_slips
		SET status = 'PAID', paid_at = $1, updated_at = NOW()
		WHERE id = ANY($2) AND company_id = $3 AND status = 'GENERATED'
	`

	tag, err := q.Exec(ctx, query, paidAt, ids, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark salary slips paid: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *payrollRepository) VoidSlip(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_slips
		SET status = 'VOID', updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'GENERATED'
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to void salary slip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalarySlipNotVoidable
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_slips,
			COUNT(*) FILTER (WHERE status = 'GENERATED') as generated_count,
			COUNT(*) FILTER (WHERE status = 'PAID') as paid_count,
			COUNT(*) FILTER (WHERE status = 'VOID') as void_count,
			COALESCE(SUM((breakdown->>'adjusted_gross')::numeric) FILTER (WHERE status <> 'VOID'), 0),
			COALESCE(SUM((breakdown->'deductions'->>'total')::numeric) FILTER (WHERE status <> 'VOID'), 0),
			COALESCE(SUM(amount_paid) FILTER (WHERE status <> 'VOID'), 0),
			COALESCE(SUM((breakdown->>'cost_to_company')::numeric) FILTER (WHERE status <> 'VOID'), 0)
		FROM salary_slips
		WHERE company_id = $1 AND month = $2 AND year = $3
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&summary.TotalSlips, &summary.GeneratedCount, &summary.PaidCount, &summary.VoidCount,
		&summary.TotalAdjustedGross, &summary.TotalDeductions, &summary.TotalAmountPaid, &summary.TotalCostToCompany,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.Month = month
	summary.Year = year

	return summary, nil
}
