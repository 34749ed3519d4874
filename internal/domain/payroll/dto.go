package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
)

type OpenPeriodRequest struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PaymentDate *string `json:"payment_date,omitempty"`
}

func (r *OpenPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be after start date"})
	}

	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeRunInput overrides the attendance for one employee in a run.
// Absent overrides mean a full standard month.
type EmployeeRunInput struct {
	EmployeeID string `json:"employee_id"`
	DaysWorked *int   `json:"days_worked,omitempty"`
	DaysAbsent *int   `json:"days_absent,omitempty"`
}

// RunPayrollRequest selects the employees for a batch run. An empty
// selection means every active employee. Employees that already hold a
// record for the period are left untouched unless Recompute is set, so
// a plain re-run cannot wipe out attendance overrides supplied earlier.
type RunPayrollRequest struct {
	EmployeeIDs []string           `json:"employee_ids,omitempty"`
	Inputs      []EmployeeRunInput `json:"inputs,omitempty"`
	Recompute   bool               `json:"recompute,omitempty"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, in := range r.Inputs {
		field := "inputs[" + validator.Itoa(i) + "]"
		if validator.IsEmpty(in.EmployeeID) {
			errs = append(errs, validator.ValidationError{Field: field + ".employee_id", Message: "is required"})
		}
		if in.DaysWorked != nil && (*in.DaysWorked < 0 || *in.DaysWorked > 31) {
			errs = append(errs, validator.ValidationError{Field: field + ".days_worked", Message: "must be between 0 and 31"})
		}
		if in.DaysAbsent != nil && (*in.DaysAbsent < 0 || *in.DaysAbsent > 31) {
			errs = append(errs, validator.ValidationError{Field: field + ".days_absent", Message: "must be between 0 and 31"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodResponse struct {
	ID          string     `json:"id"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	PaymentDate *string    `json:"payment_date,omitempty"`
	Finalized   bool       `json:"finalized"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewPeriodResponse(p Period) PeriodResponse {
	resp := PeriodResponse{
		ID:          p.ID,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
		Finalized:   p.Finalized,
		FinalizedAt: p.FinalizedAt,
		CreatedAt:   p.CreatedAt,
	}
	if p.PaymentDate != nil {
		s := p.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &s
	}
	return resp
}

type RecordResponse struct {
	ID         string `json:"id"`
	PeriodID   string `json:"period_id"`
	EmployeeID string `json:"employee_id"`

	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`

	DaysWorked int `json:"days_worked"`
	DaysAbsent int `json:"days_absent"`

	BaseSalary   decimal.Decimal `json:"base_salary"`
	AdjustedBase decimal.Decimal `json:"adjusted_base"`

	Allowances      map[string]decimal.Decimal `json:"allowances"`
	TotalAllowances decimal.Decimal            `json:"total_allowances"`

	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TaxableGross     decimal.Decimal `json:"taxable_gross"`
	ContributionBase decimal.Decimal `json:"contribution_base"`

	INPSEmployee    decimal.Decimal `json:"inps_employee"`
	AMOEmployee     decimal.Decimal `json:"amo_employee"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction"`
	LoanShortfall   decimal.Decimal `json:"loan_shortfall"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`

	NetSalary decimal.Decimal `json:"net_salary"`
	NetToPay  decimal.Decimal `json:"net_to_pay"`

	INPSEmployer      decimal.Decimal `json:"inps_employer"`
	AMOEmployer       decimal.Decimal `json:"amo_employer"`
	TaxeLogement      decimal.Decimal `json:"taxe_logement"`
	TaxeFormation     decimal.Decimal `json:"taxe_formation"`
	TaxeEmploi        decimal.Decimal `json:"taxe_emploi"`
	ContributionCFE   decimal.Decimal `json:"contribution_cfe"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
	TotalPayrollCost  decimal.Decimal `json:"total_payroll_cost"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:                r.ID,
		PeriodID:          r.PeriodID,
		EmployeeID:        r.EmployeeID,
		EmployeeCode:      r.EmployeeCode,
		EmployeeName:      r.EmployeeName,
		DaysWorked:        r.DaysWorked,
		DaysAbsent:        r.DaysAbsent,
		BaseSalary:        r.BaseSalary,
		AdjustedBase:      r.AdjustedBase,
		Allowances:        r.Allowances,
		TotalAllowances:   r.TotalAllowances,
		GrossSalary:       r.GrossSalary,
		TaxableGross:      r.TaxableGross,
		ContributionBase:  r.ContributionBase,
		INPSEmployee:      r.INPSEmployee,
		AMOEmployee:       r.AMOEmployee,
		IncomeTax:         r.IncomeTax,
		LoanDeduction:     r.LoanDeduction,
		LoanShortfall:     r.LoanShortfall,
		TotalDeductions:   r.TotalDeductions,
		NetSalary:         r.NetSalary,
		NetToPay:          r.NetToPay,
		INPSEmployer:      r.INPSEmployer,
		AMOEmployer:       r.AMOEmployer,
		TaxeLogement:      r.TaxeLogement,
		TaxeFormation:     r.TaxeFormation,
		TaxeEmploi:        r.TaxeEmploi,
		ContributionCFE:   r.ContributionCFE,
		TotalEmployerCost: r.TotalEmployerCost,
		TotalPayrollCost:  r.TotalPayrollCost,
		UpdatedAt:         r.UpdatedAt,
	}
}

type RunReportResponse struct {
	PeriodID   string            `json:"period_id"`
	Calculated []RecordResponse  `json:"calculated"`
	Skipped    int               `json:"skipped"`
	Failures   map[string]string `json:"failures,omitempty"`
}

func NewRunReportResponse(rep RunReport) RunReportResponse {
	resp := RunReportResponse{
		PeriodID:   rep.PeriodID,
		Calculated: make([]RecordResponse, 0, len(rep.Calculated)),
		Skipped:    rep.Skipped,
		Failures:   rep.Failures,
	}
	for _, r := range rep.Calculated {
		resp.Calculated = append(resp.Calculated, NewRecordResponse(r))
	}
	return resp
}
