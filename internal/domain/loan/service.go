package loan

import "context"

type Service interface {
	// RegisterLoan creates the loan together with its full payment
	// schedule in one transaction.
	RegisterLoan(ctx context.Context, req RegisterLoanRequest) (LoanResponse, error)
	// PreviewInstallment computes the schedule amounts without
	// persisting anything.
	PreviewInstallment(req PreviewInstallmentRequest) (PreviewInstallmentResponse, error)
	GetLoan(ctx context.Context, id string) (LoanResponse, error)
	ListLoans(ctx context.Context, includeInactive bool) ([]LoanResponse, error)
	ListEmployeeLoans(ctx context.Context, employeeID string, includeInactive bool) ([]LoanResponse, error)
}
