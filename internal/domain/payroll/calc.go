package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
)

// AllowanceLine is one allowance entering the calculation, already
// resolved to a monthly amount.
type AllowanceLine struct {
	TypeCode string
	Amount   decimal.Decimal
}

// CalcInput carries everything the pure calculation needs for one
// employee. The service layer assembles it; nothing here touches a
// repository.
type CalcInput struct {
	EmployeeID string
	BaseSalary decimal.Decimal // adjusted scale base for a full month
	StatusCode string
	DaysWorked int
	DaysAbsent int
	Allowances []AllowanceLine
	// LoanDeduction is the total scheduled loan withholding for the
	// period, before the net-pay cap.
	LoanDeduction decimal.Decimal
}

// CalcConfig is the effective-dated rule set shared by every employee
// in one run.
type CalcConfig struct {
	Rates            payconfig.RateSet
	AllowanceTypes   map[string]payconfig.AllowanceType
	FamilyAllowances map[string]decimal.Decimal // status code -> amount
	Tax              *tax.Engine
}

var twelve = decimal.NewFromInt(12)

// ComputeRecord runs the full monthly calculation for one employee.
// It is deterministic: the same input and config always produce the
// same record, so recalculating an open period is safe.
func ComputeRecord(in CalcInput, cfg CalcConfig) Record {
	r := Record{
		EmployeeID: in.EmployeeID,
		DaysWorked: in.DaysWorked,
		DaysAbsent: in.DaysAbsent,
		BaseSalary: in.BaseSalary,
		Allowances: map[string]decimal.Decimal{},
	}

	// Proration. A short month scales the base and the fixed monthly
	// allowances by daysWorked/standardDays; variable amounts such as
	// overtime and bonuses are earned amounts and pass through as-is.
	standardDays := decimal.NewFromInt(int64(cfg.Rates.StandardDays))
	factor := decimal.NewFromInt(1)
	if in.DaysWorked < cfg.Rates.StandardDays {
		factor = decimal.NewFromInt(int64(in.DaysWorked)).Div(standardDays)
	}
	r.AdjustedBase = in.BaseSalary.Mul(factor).Round(2)

	for _, line := range in.Allowances {
		amount := line.Amount
		if isFixedAllowance(line.TypeCode) {
			amount = amount.Mul(factor).Round(2)
		}
		r.Allowances[line.TypeCode] = r.Allowances[line.TypeCode].Add(amount)
	}

	// Defaulted allowances. Transport falls back to a fraction of the
	// adjusted base, family allowance to the flat amount for the
	// employee's status; an explicit line always wins.
	if _, ok := r.Allowances[payconfig.AllowanceTransport]; !ok && cfg.Rates.TransportRate.IsPositive() {
		r.Allowances[payconfig.AllowanceTransport] = r.AdjustedBase.Mul(cfg.Rates.TransportRate).Round(2)
	}
	if _, ok := r.Allowances[payconfig.AllowanceFamily]; !ok {
		if amount, ok := cfg.FamilyAllowances[in.StatusCode]; ok && amount.IsPositive() {
			r.Allowances[payconfig.AllowanceFamily] = amount.Mul(factor).Round(2)
		}
	}

	// Bases. gross includes everything, taxable gross drops the
	// tax-exempt allowances, contribution base drops the ones not
	// "soumis" to INPS/AMO.
	r.GrossSalary = r.AdjustedBase
	r.TaxableGross = r.AdjustedBase
	r.ContributionBase = r.AdjustedBase
	for code, amount := range r.Allowances {
		r.TotalAllowances = r.TotalAllowances.Add(amount)
		r.GrossSalary = r.GrossSalary.Add(amount)
		at, known := cfg.AllowanceTypes[code]
		if !known || at.Taxable {
			r.TaxableGross = r.TaxableGross.Add(amount)
		}
		if !known || at.SubjectToSocial {
			r.ContributionBase = r.ContributionBase.Add(amount)
		}
	}

	// Employee social contributions.
	r.INPSEmployee = r.ContributionBase.Mul(cfg.Rates.INPSEmployee).Round(2)
	r.AMOEmployee = r.ContributionBase.Mul(cfg.Rates.AMOEmployee).Round(2)

	// Income tax: annualize the taxable gross net of employee
	// contributions, run the bracket table, apply the family reduction,
	// take one twelfth.
	annualBase := r.TaxableGross.Sub(r.INPSEmployee).Sub(r.AMOEmployee).Mul(twelve)
	r.IncomeTax = cfg.Tax.MonthlyTax(annualBase, cfg.Tax.ReductionFor(in.StatusCode))

	// Net, floored at zero, then the loan cap: neither statutory
	// withholding nor loan withholding ever drives the pay negative;
	// the uncovered loan part is carried as a shortfall.
	r.NetSalary = r.GrossSalary.Sub(r.INPSEmployee).Sub(r.AMOEmployee).Sub(r.IncomeTax)
	if r.NetSalary.IsNegative() {
		r.NetSalary = decimal.Zero
	}
	r.LoanDeduction = in.LoanDeduction
	if r.LoanDeduction.GreaterThan(r.NetSalary) {
		r.LoanShortfall = r.LoanDeduction.Sub(r.NetSalary)
		r.LoanDeduction = r.NetSalary
	}
	r.TotalDeductions = r.INPSEmployee.Add(r.AMOEmployee).Add(r.IncomeTax).Add(r.LoanDeduction)
	r.NetToPay = r.NetSalary.Sub(r.LoanDeduction)

	// Employer side: contributions plus the labor taxes, all on the
	// contribution base.
	r.INPSEmployer = r.ContributionBase.Mul(cfg.Rates.INPSEmployer).Round(2)
	r.AMOEmployer = r.ContributionBase.Mul(cfg.Rates.AMOEmployer).Round(2)
	r.TaxeLogement = r.ContributionBase.Mul(cfg.Rates.TaxeLogement).Round(2)
	r.TaxeFormation = r.ContributionBase.Mul(cfg.Rates.TaxeFormation).Round(2)
	r.TaxeEmploi = r.ContributionBase.Mul(cfg.Rates.TaxeEmploi).Round(2)
	r.ContributionCFE = r.ContributionBase.Mul(cfg.Rates.ContributionCFE).Round(2)
	r.TotalEmployerCost = r.INPSEmployer.
		Add(r.AMOEmployer).
		Add(r.TaxeLogement).
		Add(r.TaxeFormation).
		Add(r.TaxeEmploi).
		Add(r.ContributionCFE)
	r.TotalPayrollCost = r.GrossSalary.Add(r.TotalEmployerCost)

	return r
}

// isFixedAllowance reports whether an allowance is a fixed monthly
// entitlement, and therefore prorated on short months. Overtime and
// bonuses are amounts actually earned in the period.
func isFixedAllowance(code string) bool {
	switch code {
	case payconfig.AllowanceOvertime, payconfig.AllowanceBonus:
		return false
	}
	return true
}
