package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type payConfigRepositoryImpl struct {
	db *database.DB
}

func NewPayConfigRepository(db *database.DB) payconfig.Repository {
	return &payConfigRepositoryImpl{db: db}
}

func (p *payConfigRepositoryImpl) RatesAsOf(ctx context.Context, asOf time.Time) (payconfig.RateSet, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, effective_date,
			inps_employee, inps_employer, amo_employee, amo_employer,
			taxe_logement, taxe_formation, taxe_emploi, contribution_cfe,
			transport_rate, standard_days
		FROM payroll_rate_sets
		WHERE effective_date <= $1
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var rs payconfig.RateSet
	err := q.QueryRow(ctx, query, asOf).Scan(
		&rs.ID, &rs.EffectiveDate,
		&rs.INPSEmployee, &rs.INPSEmployer, &rs.AMOEmployee, &rs.AMOEmployer,
		&rs.TaxeLogement, &rs.TaxeFormation, &rs.TaxeEmploi, &rs.ContributionCFE,
		&rs.TransportRate, &rs.StandardDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payconfig.RateSet{}, payconfig.ErrRateSetNotFound
		}
		return payconfig.RateSet{}, fmt.Errorf("failed to query rate set: %w", err)
	}
	return rs, nil
}

func (p *payConfigRepositoryImpl) AllowanceTypesAsOf(ctx context.Context, asOf time.Time) (map[string]payconfig.AllowanceType, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT DISTINCT ON (code) code, label, taxable, subject_to_social, effective_date
		FROM allowance_types
		WHERE effective_date <= $1
		ORDER BY code, effective_date DESC
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query allowance types: %w", err)
	}
	defer rows.Close()

	types := map[string]payconfig.AllowanceType{}
	for rows.Next() {
		var at payconfig.AllowanceType
		if err := rows.Scan(&at.Code, &at.Label, &at.Taxable, &at.SubjectToSocial, &at.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan allowance type: %w", err)
		}
		types[at.Code] = at
	}
	return types, rows.Err()
}

func (p *payConfigRepositoryImpl) FamilyAllowancesAsOf(ctx context.Context, asOf time.Time) (map[string]payconfig.FamilyAllowance, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT DISTINCT ON (status_code) status_code, amount, effective_date
		FROM family_allowances
		WHERE effective_date <= $1
		ORDER BY status_code, effective_date DESC
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query family allowances: %w", err)
	}
	defer rows.Close()

	allowances := map[string]payconfig.FamilyAllowance{}
	for rows.Next() {
		var fa payconfig.FamilyAllowance
		if err := rows.Scan(&fa.StatusCode, &fa.Amount, &fa.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan family allowance: %w", err)
		}
		allowances[fa.StatusCode] = fa
	}
	return allowances, rows.Err()
}

func (p *payConfigRepositoryImpl) EmployeeAllowancesAsOf(ctx context.Context, employeeID string, asOf time.Time) ([]payconfig.EmployeeAllowance, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, employee_id, type_code, amount, effective_date, end_date
		FROM employee_allowances
		WHERE employee_id = $1
			AND effective_date <= $2
			AND (end_date IS NULL OR end_date >= $2)
		ORDER BY type_code
	`

	rows, err := q.Query(ctx, query, employeeID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee allowances: %w", err)
	}
	defer rows.Close()

	var allowances []payconfig.EmployeeAllowance
	for rows.Next() {
		var ea payconfig.EmployeeAllowance
		if err := rows.Scan(&ea.ID, &ea.EmployeeID, &ea.TypeCode, &ea.Amount, &ea.EffectiveDate, &ea.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee allowance: %w", err)
		}
		allowances = append(allowances, ea)
	}
	return allowances, rows.Err()
}
