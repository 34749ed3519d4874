package loan

import (
	"context"
	"log/slog"
	"time"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
	"github.com/paiero-app/paiero-backend-go/internal/repository/postgresql"
)

type LoanServiceImpl struct {
	db           *database.DB
	loanRepo     loan.Repository
	employeeRepo employee.EmployeeRepository
}

func NewLoanService(
	db *database.DB,
	loanRepo loan.Repository,
	employeeRepo employee.EmployeeRepository,
) loan.Service {
	return &LoanServiceImpl{
		db:           db,
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *LoanServiceImpl) RegisterLoan(ctx context.Context, req loan.RegisterLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	grantDate, _ := time.Parse("2006-01-02", req.GrantDate)
	firstDue := grantDate.AddDate(0, 1, 0)
	var firstPaymentDate *time.Time
	if req.FirstPaymentDate != nil {
		d, _ := time.Parse("2006-01-02", *req.FirstPaymentDate)
		firstDue = d
		firstPaymentDate = &d
	}

	l := loan.Loan{
		EmployeeID:         emp.ID,
		Type:               loan.LoanType(req.Type),
		TotalAmount:        req.TotalAmount,
		RemainingBalance:   req.TotalAmount,
		GrantDate:          grantDate,
		FirstPaymentDate:   firstPaymentDate,
		DurationMonths:     req.DurationMonths,
		MonthlyInstallment: loan.MonthlyInstallment(req.TotalAmount, req.DurationMonths),
		IsActive:           true,
		Notes:              req.Notes,
	}
	schedule := loan.BuildSchedule(req.TotalAmount, req.DurationMonths, firstDue)

	var created loan.Loan
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.loanRepo.Create(txCtx, l, schedule)
		return txErr
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}

	slog.Info("loan registered",
		"loan_id", created.ID,
		"employee_code", emp.Code,
		"type", created.Type,
		"total_amount", created.TotalAmount,
		"duration_months", created.DurationMonths,
	)
	return loan.NewLoanResponse(created, schedule), nil
}

func (s *LoanServiceImpl) PreviewInstallment(req loan.PreviewInstallmentRequest) (loan.PreviewInstallmentResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.PreviewInstallmentResponse{}, err
	}

	schedule := loan.BuildSchedule(req.TotalAmount, req.DurationMonths, time.Time{})
	return loan.PreviewInstallmentResponse{
		TotalAmount:        req.TotalAmount,
		DurationMonths:     req.DurationMonths,
		MonthlyInstallment: loan.MonthlyInstallment(req.TotalAmount, req.DurationMonths),
		FinalInstallment:   schedule[len(schedule)-1].ScheduledAmount,
	}, nil
}

func (s *LoanServiceImpl) GetLoan(ctx context.Context, id string) (loan.LoanResponse, error) {
	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	schedule, err := s.loanRepo.GetSchedule(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.NewLoanResponse(l, schedule), nil
}

func (s *LoanServiceImpl) ListLoans(ctx context.Context, includeInactive bool) ([]loan.LoanResponse, error) {
	loans, err := s.loanRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return toResponses(loans), nil
}

func (s *LoanServiceImpl) ListEmployeeLoans(ctx context.Context, employeeID string, includeInactive bool) ([]loan.LoanResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	list := s.loanRepo.ListActiveByEmployee
	if includeInactive {
		list = s.loanRepo.ListByEmployee
	}
	loans, err := list(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(loans), nil
}

func toResponses(loans []loan.Loan) []loan.LoanResponse {
	resp := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, loan.NewLoanResponse(l, nil))
	}
	return resp
}
