package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/salaryscale"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type salaryScaleRepositoryImpl struct {
	db *database.DB
}

func NewSalaryScaleRepository(db *database.DB) salaryscale.Repository {
	return &salaryScaleRepositoryImpl{db: db}
}

const scaleColumns = `
	id, category_code, effective_date, base_salary,
	ind_spec_1973, ind_cher_vie_1974, ind_sol_1991, cumulative_maj,
	adjusted_base, created_at
`

func scanScaleEntry(row pgx.Row) (salaryscale.Entry, error) {
	var entry salaryscale.Entry
	err := row.Scan(
		&entry.ID, &entry.CategoryCode, &entry.EffectiveDate, &entry.BaseSalary,
		&entry.IndSpec1973, &entry.IndCherVie1974, &entry.IndSol1991, &entry.CumulativeMaj,
		&entry.AdjustedBase, &entry.CreatedAt,
	)
	return entry, err
}

func (s *salaryScaleRepositoryImpl) ResolveAsOf(ctx context.Context, categoryCode string, asOf time.Time) (salaryscale.Entry, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + scaleColumns + `
		FROM salary_scale_entries
		WHERE category_code = $1 AND effective_date <= $2
		ORDER BY effective_date DESC
		LIMIT 1
	`

	entry, err := scanScaleEntry(q.QueryRow(ctx, query, categoryCode, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salaryscale.Entry{}, salaryscale.ErrEntryNotFound
		}
		return salaryscale.Entry{}, fmt.Errorf("failed to resolve salary scale entry: %w", err)
	}
	return entry, nil
}

func (s *salaryScaleRepositoryImpl) ListByCategory(ctx context.Context, categoryCode string) ([]salaryscale.Entry, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + scaleColumns + `
		FROM salary_scale_entries
		WHERE category_code = $1
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary scale entries: %w", err)
	}
	defer rows.Close()

	var entries []salaryscale.Entry
	for rows.Next() {
		entry, err := scanScaleEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary scale entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *salaryScaleRepositoryImpl) Create(ctx context.Context, entry salaryscale.Entry) (salaryscale.Entry, error) {
	q := GetQuerier(ctx, s.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.AdjustedBase = entry.ComputeAdjustedBase()

	query := `
		INSERT INTO salary_scale_entries (
			id, category_code, effective_date, base_salary,
			ind_spec_1973, ind_cher_vie_1974, ind_sol_1991, cumulative_maj,
			adjusted_base
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + scaleColumns

	created, err := scanScaleEntry(q.QueryRow(ctx, query,
		entry.ID, entry.CategoryCode, entry.EffectiveDate, entry.BaseSalary,
		entry.IndSpec1973, entry.IndCherVie1974, entry.IndSol1991, entry.CumulativeMaj,
		entry.AdjustedBase,
	))
	if err != nil {
		return salaryscale.Entry{}, fmt.Errorf("failed to create salary scale entry: %w", err)
	}
	return created, nil
}
