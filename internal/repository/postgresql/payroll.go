package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payroll"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `
	id, start_date, end_date, payment_date, finalized, finalized_at,
	created_at, updated_at
`

func scanPeriod(row pgx.Row) (payroll.Period, error) {
	var p payroll.Period
	err := row.Scan(
		&p.ID, &p.StartDate, &p.EndDate, &p.PaymentDate, &p.Finalized, &p.FinalizedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *periodRepositoryImpl) Create(ctx context.Context, p payroll.Period) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll_periods (id, start_date, end_date, payment_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query, p.ID, p.StartDate, p.EndDate, p.PaymentDate))
	if err != nil {
		if isUniqueViolation(err, "payroll_periods_start_date_end_date_key") {
			return payroll.Period{}, payroll.ErrPeriodExists
		}
		return payroll.Period{}, fmt.Errorf("failed to create period: %w", err)
	}
	return created, nil
}

func (r *periodRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	return r.get(ctx, id, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1`)
}

func (r *periodRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (payroll.Period, error) {
	return r.get(ctx, id, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1 FOR UPDATE`)
}

func (r *periodRepositoryImpl) get(ctx context.Context, id, query string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get period: %w", err)
	}
	return p, nil
}

func (r *periodRepositoryImpl) List(ctx context.Context) ([]payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+periodColumns+` FROM payroll_periods ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *periodRepositoryImpl) Finalize(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET finalized = TRUE, finalized_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND NOT finalized
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or already locked; disambiguate.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return getErr
			}
			return payroll.ErrPeriodFinalized
		}
		return fmt.Errorf("failed to finalize period: %w", err)
	}
	return nil
}

type recordRepositoryImpl struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) payroll.RecordRepository {
	return &recordRepositoryImpl{db: db}
}

const recordColumns = `
	r.id, r.period_id, r.employee_id, r.days_worked, r.days_absent,
	r.base_salary, r.adjusted_base, r.allowances, r.total_allowances,
	r.gross_salary, r.taxable_gross, r.contribution_base,
	r.inps_employee, r.amo_employee, r.income_tax,
	r.loan_deduction, r.loan_shortfall, r.total_deductions,
	r.net_salary, r.net_to_pay,
	r.inps_employer, r.amo_employer,
	r.taxe_logement, r.taxe_formation, r.taxe_emploi, r.contribution_cfe,
	r.total_employer_cost, r.total_payroll_cost,
	r.created_at, r.updated_at,
	e.employee_code, e.full_name
`

func scanRecord(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	var allowances []byte
	err := row.Scan(
		&rec.ID, &rec.PeriodID, &rec.EmployeeID, &rec.DaysWorked, &rec.DaysAbsent,
		&rec.BaseSalary, &rec.AdjustedBase, &allowances, &rec.TotalAllowances,
		&rec.GrossSalary, &rec.TaxableGross, &rec.ContributionBase,
		&rec.INPSEmployee, &rec.AMOEmployee, &rec.IncomeTax,
		&rec.LoanDeduction, &rec.LoanShortfall, &rec.TotalDeductions,
		&rec.NetSalary, &rec.NetToPay,
		&rec.INPSEmployer, &rec.AMOEmployer,
		&rec.TaxeLogement, &rec.TaxeFormation, &rec.TaxeEmploi, &rec.ContributionCFE,
		&rec.TotalEmployerCost, &rec.TotalPayrollCost,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeCode, &rec.EmployeeName,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	if len(allowances) > 0 {
		if err := json.Unmarshal(allowances, &rec.Allowances); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode allowances: %w", err)
		}
	}
	if rec.Allowances == nil {
		rec.Allowances = map[string]decimal.Decimal{}
	}
	return rec, nil
}

func (r *recordRepositoryImpl) Upsert(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	allowances, err := json.Marshal(rec.Allowances)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode allowances: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, period_id, employee_id, days_worked, days_absent,
			base_salary, adjusted_base, allowances, total_allowances,
			gross_salary, taxable_gross, contribution_base,
			inps_employee, amo_employee, income_tax,
			loan_deduction, loan_shortfall, total_deductions,
			net_salary, net_to_pay,
			inps_employer, amo_employer,
			taxe_logement, taxe_formation, taxe_emploi, contribution_cfe,
			total_employer_cost, total_payroll_cost
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
		ON CONFLICT (period_id, employee_id) DO UPDATE SET
			days_worked = EXCLUDED.days_worked,
			days_absent = EXCLUDED.days_absent,
			base_salary = EXCLUDED.base_salary,
			adjusted_base = EXCLUDED.adjusted_base,
			allowances = EXCLUDED.allowances,
			total_allowances = EXCLUDED.total_allowances,
			gross_salary = EXCLUDED.gross_salary,
			taxable_gross = EXCLUDED.taxable_gross,
			contribution_base = EXCLUDED.contribution_base,
			inps_employee = EXCLUDED.inps_employee,
			amo_employee = EXCLUDED.amo_employee,
			income_tax = EXCLUDED.income_tax,
			loan_deduction = EXCLUDED.loan_deduction,
			loan_shortfall = EXCLUDED.loan_shortfall,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			net_to_pay = EXCLUDED.net_to_pay,
			inps_employer = EXCLUDED.inps_employer,
			amo_employer = EXCLUDED.amo_employer,
			taxe_logement = EXCLUDED.taxe_logement,
			taxe_formation = EXCLUDED.taxe_formation,
			taxe_emploi = EXCLUDED.taxe_emploi,
			contribution_cfe = EXCLUDED.contribution_cfe,
			total_employer_cost = EXCLUDED.total_employer_cost,
			total_payroll_cost = EXCLUDED.total_payroll_cost,
			updated_at = NOW()
		RETURNING id
	`

	if err := q.QueryRow(ctx, query,
		rec.ID, rec.PeriodID, rec.EmployeeID, rec.DaysWorked, rec.DaysAbsent,
		rec.BaseSalary, rec.AdjustedBase, allowances, rec.TotalAllowances,
		rec.GrossSalary, rec.TaxableGross, rec.ContributionBase,
		rec.INPSEmployee, rec.AMOEmployee, rec.IncomeTax,
		rec.LoanDeduction, rec.LoanShortfall, rec.TotalDeductions,
		rec.NetSalary, rec.NetToPay,
		rec.INPSEmployer, rec.AMOEmployer,
		rec.TaxeLogement, rec.TaxeFormation, rec.TaxeEmploi, rec.ContributionCFE,
		rec.TotalEmployerCost, rec.TotalPayrollCost,
	).Scan(&rec.ID); err != nil {
		return payroll.Record{}, fmt.Errorf("failed to upsert record: %w", err)
	}

	return r.GetByPeriodEmployee(ctx, rec.PeriodID, rec.EmployeeID)
}

func (r *recordRepositoryImpl) GetByPeriodEmployee(ctx context.Context, periodID, employeeID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.period_id = $1 AND r.employee_id = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, periodID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

func (r *recordRepositoryImpl) ListByPeriod(ctx context.Context, periodID string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.period_id = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *recordRepositoryImpl) EmployeeIDsWithRecord(ctx context.Context, periodID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM payroll_records WHERE period_id = $1`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list record employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *recordRepositoryImpl) Summary(ctx context.Context, periodID string) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(inps_employee), 0),
			COALESCE(SUM(amo_employee), 0),
			COALESCE(SUM(income_tax), 0),
			COALESCE(SUM(loan_deduction), 0),
			COALESCE(SUM(net_to_pay), 0),
			COALESCE(SUM(inps_employer), 0),
			COALESCE(SUM(amo_employer), 0),
			COALESCE(SUM(taxe_logement + taxe_formation + taxe_emploi + contribution_cfe), 0),
			COALESCE(SUM(total_payroll_cost), 0)
		FROM payroll_records
		WHERE period_id = $1
	`

	var s payroll.Summary
	err := q.QueryRow(ctx, query, periodID).Scan(
		&s.EmployeeCount,
		&s.TotalGross,
		&s.TotalINPSEmployee,
		&s.TotalAMOEmployee,
		&s.TotalIncomeTax,
		&s.TotalLoans,
		&s.TotalNetToPay,
		&s.TotalINPSEmployer,
		&s.TotalAMOEmployer,
		&s.TotalLaborTaxes,
		&s.TotalPayrollCost,
	)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to compute period summary: %w", err)
	}
	return s, nil
}
