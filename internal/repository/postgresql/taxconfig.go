package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type taxConfigRepositoryImpl struct {
	db *database.DB
}

func NewTaxConfigRepository(db *database.DB) tax.Repository {
	return &taxConfigRepositoryImpl{db: db}
}

func (t *taxConfigRepositoryImpl) BracketsAsOf(ctx context.Context, asOf time.Time) ([]tax.Bracket, error) {
	q := GetQuerier(ctx, t.db)

	// One effective date owns one complete table; pick the newest table
	// not after asOf, never mix rows across dates.
	query := `
		SELECT min_income, max_income, rate, cumulative_tax, effective_date
		FROM tax_brackets
		WHERE effective_date = (
			SELECT MAX(effective_date) FROM tax_brackets WHERE effective_date <= $1
		)
		ORDER BY min_income
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []tax.Bracket
	for rows.Next() {
		var b tax.Bracket
		if err := rows.Scan(&b.MinIncome, &b.MaxIncome, &b.Rate, &b.CumulativeTax, &b.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(brackets) == 0 {
		return nil, tax.ErrBracketTableNotFound
	}
	return brackets, nil
}

func (t *taxConfigRepositoryImpl) ReductionsAsOf(ctx context.Context, asOf time.Time) (map[string]tax.FamilyReduction, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		SELECT DISTINCT ON (status_code) status_code, rate, effective_date
		FROM tax_family_reductions
		WHERE effective_date <= $1
		ORDER BY status_code, effective_date DESC
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query family reductions: %w", err)
	}
	defer rows.Close()

	reductions := map[string]tax.FamilyReduction{}
	for rows.Next() {
		var r tax.FamilyReduction
		if err := rows.Scan(&r.StatusCode, &r.Rate, &r.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan family reduction: %w", err)
		}
		reductions[r.StatusCode] = r
	}
	return reductions, rows.Err()
}
