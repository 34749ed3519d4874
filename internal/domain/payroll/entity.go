package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one monthly payroll window. Finalized only ever goes
// false -> true; after that every record in the period is read-only.
type Period struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	PaymentDate *time.Time
	Finalized   bool
	FinalizedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Record is the fully itemized payslip for one (period, employee)
// pair. Recalculation overwrites it in place while the period is open.
type Record struct {
	ID         string
	PeriodID   string
	EmployeeID string

	DaysWorked int
	DaysAbsent int

	BaseSalary   decimal.Decimal // full-month scale base
	AdjustedBase decimal.Decimal // after proration

	Allowances      map[string]decimal.Decimal // {"TRANSPORT": 20000, ...}
	TotalAllowances decimal.Decimal

	GrossSalary      decimal.Decimal
	TaxableGross     decimal.Decimal
	ContributionBase decimal.Decimal

	INPSEmployee  decimal.Decimal
	AMOEmployee   decimal.Decimal
	IncomeTax     decimal.Decimal
	LoanDeduction decimal.Decimal
	// LoanShortfall is the portion of the requested loan deduction that
	// could not be withheld because it would have driven net pay
	// negative. Reported, never silently dropped.
	LoanShortfall   decimal.Decimal
	TotalDeductions decimal.Decimal

	NetSalary decimal.Decimal
	NetToPay  decimal.Decimal

	INPSEmployer      decimal.Decimal
	AMOEmployer       decimal.Decimal
	TaxeLogement      decimal.Decimal
	TaxeFormation     decimal.Decimal
	TaxeEmploi        decimal.Decimal
	ContributionCFE   decimal.Decimal
	TotalEmployerCost decimal.Decimal
	TotalPayrollCost  decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
}

// RunReport is the outcome of one batch payroll run: a record per
// employee that computed, and the reason for each one that did not.
// A failed employee never aborts the siblings.
type RunReport struct {
	PeriodID   string
	Calculated []Record
	Skipped    int
	Failures   map[string]string // employee code -> reason
}

// Summary aggregates a period's records for reporting and the employer
// tax declarations.
type Summary struct {
	EmployeeCount     int             `json:"employee_count"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalINPSEmployee decimal.Decimal `json:"total_inps_employee"`
	TotalAMOEmployee  decimal.Decimal `json:"total_amo_employee"`
	TotalIncomeTax    decimal.Decimal `json:"total_income_tax"`
	TotalLoans        decimal.Decimal `json:"total_loan_deductions"`
	TotalNetToPay     decimal.Decimal `json:"total_net_to_pay"`
	TotalINPSEmployer decimal.Decimal `json:"total_inps_employer"`
	TotalAMOEmployer  decimal.Decimal `json:"total_amo_employer"`
	TotalLaborTaxes   decimal.Decimal `json:"total_labor_taxes"`
	TotalPayrollCost  decimal.Decimal `json:"total_payroll_cost"`
}
