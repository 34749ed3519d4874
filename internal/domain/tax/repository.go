package tax

import (
	"context"
	"time"
)

type Repository interface {
	// BracketsAsOf returns the bracket table in effect at asOf, ordered
	// ascending by minimum income, or ErrBracketTableNotFound.
	BracketsAsOf(ctx context.Context, asOf time.Time) ([]Bracket, error)
	// ReductionsAsOf returns the family reduction rates in effect at asOf,
	// keyed by status code.
	ReductionsAsOf(ctx context.Context, asOf time.Time) (map[string]FamilyReduction, error)
}
