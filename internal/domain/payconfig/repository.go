package payconfig

import (
	"context"
	"time"
)

type Repository interface {
	// RatesAsOf returns the rate set in effect at asOf, or
	// ErrRateSetNotFound.
	RatesAsOf(ctx context.Context, asOf time.Time) (RateSet, error)
	// AllowanceTypesAsOf returns the classification in effect at asOf,
	// keyed by allowance code.
	AllowanceTypesAsOf(ctx context.Context, asOf time.Time) (map[string]AllowanceType, error)
	// FamilyAllowancesAsOf returns the flat family allowance per status
	// code in effect at asOf.
	FamilyAllowancesAsOf(ctx context.Context, asOf time.Time) (map[string]FamilyAllowance, error)
	// EmployeeAllowancesAsOf returns the employee's recurring allowance
	// rows in effect at asOf.
	EmployeeAllowancesAsOf(ctx context.Context, employeeID string, asOf time.Time) ([]EmployeeAllowance, error)
}
