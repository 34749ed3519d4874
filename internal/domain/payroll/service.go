package payroll

import "context"

type Service interface {
	OpenPeriod(ctx context.Context, req OpenPeriodRequest) (PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]PeriodResponse, error)
	GetPeriod(ctx context.Context, periodID string) (PeriodResponse, error)

	// RunPayroll computes (or recomputes) the records for the selected
	// employees of an open period. One failed employee is reported, not
	// fatal to the batch.
	RunPayroll(ctx context.Context, periodID string, req RunPayrollRequest) (RunReportResponse, error)

	// Finalize locks the period after checking every active employee
	// has a record; it returns *IncompleteDataError otherwise.
	Finalize(ctx context.Context, periodID string) (PeriodResponse, error)

	GetRecord(ctx context.Context, periodID, employeeID string) (RecordResponse, error)
	ListRecords(ctx context.Context, periodID string) ([]RecordResponse, error)
	GetSummary(ctx context.Context, periodID string) (Summary, error)
}
