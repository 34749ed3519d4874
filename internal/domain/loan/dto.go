package loan

import (
	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RegisterLoanRequest struct {
	EmployeeID       string          `json:"employee_id"`
	Type             string          `json:"type"` // "loan" or "advance"
	TotalAmount      decimal.Decimal `json:"total_amount"`
	GrantDate        string          `json:"grant_date"`
	FirstPaymentDate *string         `json:"first_payment_date,omitempty"`
	DurationMonths   int             `json:"duration_months"`
	Notes            *string         `json:"notes,omitempty"`
}

func (r *RegisterLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Type != string(TypeLoan) && r.Type != string(TypeAdvance) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'loan' or 'advance'"})
	}
	if !r.TotalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be positive"})
	}
	if _, ok := validator.IsValidDate(r.GrantDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "grant_date", Message: "must be YYYY-MM-DD"})
	}
	if r.FirstPaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.FirstPaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "first_payment_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.DurationMonths < 1 || r.DurationMonths > 120 {
		errs = append(errs, validator.ValidationError{Field: "duration_months", Message: "must be between 1 and 120"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewInstallmentRequest struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DurationMonths int             `json:"duration_months"`
}

func (r *PreviewInstallmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.TotalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be positive"})
	}
	if r.DurationMonths < 1 || r.DurationMonths > 120 {
		errs = append(errs, validator.ValidationError{Field: "duration_months", Message: "must be between 1 and 120"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewInstallmentResponse struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DurationMonths     int             `json:"duration_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	FinalInstallment   decimal.Decimal `json:"final_installment"`
}

type PaymentResponse struct {
	ID              string          `json:"id"`
	Sequence        int             `json:"sequence"`
	DueDate         string          `json:"due_date"`
	ScheduledAmount decimal.Decimal `json:"scheduled_amount"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	Status          string          `json:"status"`
	PeriodID        *string         `json:"period_id,omitempty"`
	PaidDate        *string         `json:"paid_date,omitempty"`
}

type LoanResponse struct {
	ID                 string            `json:"id"`
	EmployeeID         string            `json:"employee_id"`
	Type               string            `json:"type"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	RemainingBalance   decimal.Decimal   `json:"remaining_balance"`
	GrantDate          string            `json:"grant_date"`
	FirstPaymentDate   *string           `json:"first_payment_date,omitempty"`
	DurationMonths     int               `json:"duration_months"`
	MonthlyInstallment decimal.Decimal   `json:"monthly_installment"`
	IsActive           bool              `json:"is_active"`
	Notes              *string           `json:"notes,omitempty"`
	Schedule           []PaymentResponse `json:"schedule,omitempty"`
}

func NewPaymentResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:              p.ID,
		Sequence:        p.Sequence,
		DueDate:         p.DueDate.Format("2006-01-02"),
		ScheduledAmount: p.ScheduledAmount,
		ActualAmount:    p.ActualAmount,
		Status:          string(p.Status),
		PeriodID:        p.PeriodID,
	}
	if p.PaidDate != nil {
		s := p.PaidDate.Format("2006-01-02")
		resp.PaidDate = &s
	}
	return resp
}

func NewLoanResponse(l Loan, schedule []Payment) LoanResponse {
	resp := LoanResponse{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		Type:               string(l.Type),
		TotalAmount:        l.TotalAmount,
		RemainingBalance:   l.RemainingBalance,
		GrantDate:          l.GrantDate.Format("2006-01-02"),
		DurationMonths:     l.DurationMonths,
		MonthlyInstallment: l.MonthlyInstallment,
		IsActive:           l.IsActive,
		Notes:              l.Notes,
	}
	if l.FirstPaymentDate != nil {
		s := l.FirstPaymentDate.Format("2006-01-02")
		resp.FirstPaymentDate = &s
	}
	for _, p := range schedule {
		resp.Schedule = append(resp.Schedule, NewPaymentResponse(p))
	}
	return resp
}
