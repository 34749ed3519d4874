package salaryscale

import (
	"context"
	"time"
)

type Repository interface {
	// ResolveAsOf returns the entry for the category with the greatest
	// effective date not exceeding asOf, or ErrEntryNotFound.
	ResolveAsOf(ctx context.Context, categoryCode string, asOf time.Time) (Entry, error)
	ListByCategory(ctx context.Context, categoryCode string) ([]Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
}
