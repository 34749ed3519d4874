package payroll

import "context"

type PeriodRepository interface {
	// Create inserts a new open period; duplicate (start, end) bounds
	// map to ErrPeriodExists.
	Create(ctx context.Context, p Period) (Period, error)
	GetByID(ctx context.Context, id string) (Period, error)
	// GetByIDForUpdate locks the period row for the enclosing
	// transaction, pinning the finalized flag for the unit of work.
	GetByIDForUpdate(ctx context.Context, id string) (Period, error)
	List(ctx context.Context) ([]Period, error)
	// Finalize flips the flag; it fails with ErrPeriodFinalized when the
	// period is already locked.
	Finalize(ctx context.Context, id string) error
}

type RecordRepository interface {
	// Upsert creates or overwrites the record keyed by
	// (period_id, employee_id). Recalculation replaces, never
	// accumulates.
	Upsert(ctx context.Context, r Record) (Record, error)
	GetByPeriodEmployee(ctx context.Context, periodID, employeeID string) (Record, error)
	ListByPeriod(ctx context.Context, periodID string) ([]Record, error)
	// EmployeeIDsWithRecord returns the ids of employees already
	// holding a record in the period.
	EmployeeIDsWithRecord(ctx context.Context, periodID string) ([]string, error)
	Summary(ctx context.Context, periodID string) (Summary, error)
}
