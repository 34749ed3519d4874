package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l Loan, schedule []Payment) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	List(ctx context.Context, includeInactive bool) ([]Loan, error)
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	// ListByEmployee returns every loan of the employee, inactive ones
	// included. Recalculation needs loans cleared by a previous run of
	// the same period.
	ListByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	GetSchedule(ctx context.Context, loanID string) ([]Payment, error)

	// GetAppliedPayment returns the payment already bound to the
	// (loan, period) pair, or ErrPaymentNotFound.
	GetAppliedPayment(ctx context.Context, loanID, periodID string) (Payment, error)
	// ApplyPayment binds the next scheduled payment (or updates the one
	// already bound to the period) and moves the loan balance by the
	// difference against any previously applied amount for the pair.
	// Balance is clamped at zero and the loan deactivated when cleared.
	// Idempotent per (loan, period, amount).
	ApplyPayment(ctx context.Context, loanID, periodID string, amount decimal.Decimal) error
}
