package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanType enum
type LoanType string

const (
	TypeLoan    LoanType = "loan"
	TypeAdvance LoanType = "advance"
)

// PaymentStatus enum. A payment starts scheduled and flips to applied
// exactly once, when a payroll run binds it to a period.
type PaymentStatus string

const (
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusApplied   PaymentStatus = "applied"
)

// Loan is a salary loan or advance repaid through payroll deductions.
// RemainingBalance only ever decreases and stays within [0, TotalAmount].
type Loan struct {
	ID                 string
	EmployeeID         string
	Type               LoanType
	TotalAmount        decimal.Decimal
	RemainingBalance   decimal.Decimal
	GrantDate          time.Time
	FirstPaymentDate   *time.Time
	DurationMonths     int
	MonthlyInstallment decimal.Decimal
	IsActive           bool
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Payment is one scheduled installment row. PeriodID stays nil while
// the payment is only scheduled; applying it binds the period.
type Payment struct {
	ID              string
	LoanID          string
	Sequence        int
	DueDate         time.Time
	ScheduledAmount decimal.Decimal
	ActualAmount    decimal.Decimal
	Status          PaymentStatus
	PeriodID        *string
	PaidDate        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
