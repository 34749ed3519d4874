package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.Repository {
	return &loanRepositoryImpl{db: db}
}

const loanColumns = `
	id, employee_id, loan_type, total_amount, remaining_balance,
	grant_date, first_payment_date, duration_months, monthly_installment,
	is_active, notes, created_at, updated_at
`

const paymentColumns = `
	id, loan_id, sequence, due_date, scheduled_amount, actual_amount,
	status, period_id, paid_date, created_at, updated_at
`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Type, &l.TotalAmount, &l.RemainingBalance,
		&l.GrantDate, &l.FirstPaymentDate, &l.DurationMonths, &l.MonthlyInstallment,
		&l.IsActive, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func scanPayment(row pgx.Row) (loan.Payment, error) {
	var p loan.Payment
	err := row.Scan(
		&p.ID, &p.LoanID, &p.Sequence, &p.DueDate, &p.ScheduledAmount, &p.ActualAmount,
		&p.Status, &p.PeriodID, &p.PaidDate, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *loanRepositoryImpl) Create(ctx context.Context, l loan.Loan, schedule []loan.Payment) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO loans (
			id, employee_id, loan_type, total_amount, remaining_balance,
			grant_date, first_payment_date, duration_months, monthly_installment,
			is_active, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + loanColumns

	created, err := scanLoan(q.QueryRow(ctx, query,
		l.ID, l.EmployeeID, l.Type, l.TotalAmount, l.RemainingBalance,
		l.GrantDate, l.FirstPaymentDate, l.DurationMonths, l.MonthlyInstallment,
		l.IsActive, l.Notes,
	))
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}

	for _, p := range schedule {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := q.Exec(ctx, `
			INSERT INTO loan_payments (
				id, loan_id, sequence, due_date, scheduled_amount, actual_amount, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, created.ID, p.Sequence, p.DueDate, p.ScheduledAmount, p.ActualAmount, p.Status)
		if err != nil {
			return loan.Loan{}, fmt.Errorf("failed to create loan payment %d: %w", p.Sequence, err)
		}
	}
	return created, nil
}

func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLoan(q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (r *loanRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY grant_date DESC`
	if !includeInactive {
		query = `SELECT ` + loanColumns + ` FROM loans WHERE is_active ORDER BY grant_date DESC`
	}
	return r.list(ctx, query)
}

func (r *loanRepositoryImpl) ListActiveByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	return r.list(ctx, `SELECT `+loanColumns+` FROM loans WHERE employee_id = $1 AND is_active ORDER BY grant_date`, employeeID)
}

func (r *loanRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	return r.list(ctx, `SELECT `+loanColumns+` FROM loans WHERE employee_id = $1 ORDER BY grant_date`, employeeID)
}

func (r *loanRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *loanRepositoryImpl) GetSchedule(ctx context.Context, loanID string) ([]loan.Payment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY sequence
	`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan payments: %w", err)
	}
	defer rows.Close()

	var payments []loan.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *loanRepositoryImpl) GetAppliedPayment(ctx context.Context, loanID, periodID string) (loan.Payment, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayment(q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM loan_payments
		WHERE loan_id = $1 AND period_id = $2
	`, loanID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Payment{}, loan.ErrPaymentNotFound
		}
		return loan.Payment{}, fmt.Errorf("failed to get applied payment: %w", err)
	}
	return p, nil
}

func (r *loanRepositoryImpl) ApplyPayment(ctx context.Context, loanID, periodID string, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	// Recalculation path: a payment already bound to this period is
	// updated in place and only the difference moves the balance.
	delta := amount
	existing, err := r.GetAppliedPayment(ctx, loanID, periodID)
	switch {
	case err == nil:
		delta = amount.Sub(existing.ActualAmount)
		_, err = q.Exec(ctx, `
			UPDATE loan_payments
			SET actual_amount = $1, paid_date = NOW(), updated_at = NOW()
			WHERE id = $2
		`, amount, existing.ID)
		if err != nil {
			return fmt.Errorf("failed to update applied payment: %w", err)
		}
	case errors.Is(err, loan.ErrPaymentNotFound):
		if amount.IsZero() {
			return nil
		}
		tag, execErr := q.Exec(ctx, `
			UPDATE loan_payments
			SET actual_amount = $1, status = $2, period_id = $3, paid_date = NOW(), updated_at = NOW()
			WHERE id = (
				SELECT id FROM loan_payments
				WHERE loan_id = $4 AND status = $5
				ORDER BY sequence
				LIMIT 1
			)
		`, amount, loan.PaymentStatusApplied, periodID, loanID, loan.PaymentStatusScheduled)
		if execErr != nil {
			return fmt.Errorf("failed to apply payment: %w", execErr)
		}
		if tag.RowsAffected() == 0 {
			return loan.ErrPaymentNotFound
		}
	default:
		return err
	}

	_, err = q.Exec(ctx, `
		UPDATE loans
		SET remaining_balance = GREATEST(remaining_balance - $1, 0),
			is_active = (remaining_balance - $1 > 0),
			updated_at = NOW()
		WHERE id = $2
	`, delta, loanID)
	if err != nil {
		return fmt.Errorf("failed to update loan balance: %w", err)
	}
	return nil
}
