package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// flatTaxConfig builds a config with a single open-ended 20% bracket,
// Mali-style contribution rates and a 26-day standard month.
func flatTaxConfig(t *testing.T) CalcConfig {
	t.Helper()

	engine, err := tax.NewEngine([]tax.Bracket{
		{MinIncome: decimal.Zero, Rate: d("0.20"), CumulativeTax: decimal.Zero},
	}, map[string]tax.FamilyReduction{
		"M2": {StatusCode: "M2", Rate: d("0.10")},
	})
	require.NoError(t, err)

	return CalcConfig{
		Rates: payconfig.RateSet{
			INPSEmployee:    d("0.036"),
			INPSEmployer:    d("0.164"),
			AMOEmployee:     d("0.0306"),
			AMOEmployer:     d("0.035"),
			TaxeLogement:    d("0.01"),
			TaxeFormation:   d("0.02"),
			TaxeEmploi:      d("0.02"),
			ContributionCFE: d("0.035"),
			TransportRate:   d("0.10"),
			StandardDays:    26,
		},
		AllowanceTypes: map[string]payconfig.AllowanceType{
			payconfig.AllowanceTransport: {Code: payconfig.AllowanceTransport, Taxable: true, SubjectToSocial: false},
			payconfig.AllowanceFamily:    {Code: payconfig.AllowanceFamily, Taxable: false, SubjectToSocial: false},
			payconfig.AllowanceOvertime:  {Code: payconfig.AllowanceOvertime, Taxable: true, SubjectToSocial: true},
		},
		FamilyAllowances: map[string]decimal.Decimal{},
		Tax:              engine,
	}
}

func TestComputeRecord_FullMonth(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")},
		},
	}, cfg)

	assert.True(t, rec.AdjustedBase.Equal(d("200000")), "adjusted base: %s", rec.AdjustedBase)
	assert.True(t, rec.GrossSalary.Equal(d("220000")), "gross: %s", rec.GrossSalary)
	assert.True(t, rec.TaxableGross.Equal(d("220000")), "taxable gross: %s", rec.TaxableGross)
	assert.True(t, rec.ContributionBase.Equal(d("200000")), "contribution base: %s", rec.ContributionBase)

	assert.True(t, rec.INPSEmployee.Equal(d("7200")), "inps: %s", rec.INPSEmployee)
	assert.True(t, rec.AMOEmployee.Equal(d("6120")), "amo: %s", rec.AMOEmployee)
	// annual base (220000 - 7200 - 6120) * 12 = 2480160, flat 20%, /12.
	assert.True(t, rec.IncomeTax.Equal(d("41336")), "income tax: %s", rec.IncomeTax)
	assert.True(t, rec.NetSalary.Equal(d("165344")), "net: %s", rec.NetSalary)
	assert.True(t, rec.NetToPay.Equal(d("165344")), "net to pay: %s", rec.NetToPay)

	assert.True(t, rec.INPSEmployer.Equal(d("32800")), "inps employer: %s", rec.INPSEmployer)
	assert.True(t, rec.AMOEmployer.Equal(d("7000")), "amo employer: %s", rec.AMOEmployer)
	assert.True(t, rec.TaxeLogement.Equal(d("2000")))
	assert.True(t, rec.TaxeFormation.Equal(d("4000")))
	assert.True(t, rec.TaxeEmploi.Equal(d("4000")))
	assert.True(t, rec.ContributionCFE.Equal(d("7000")))
	assert.True(t, rec.TotalEmployerCost.Equal(d("56800")), "employer cost: %s", rec.TotalEmployerCost)
	assert.True(t, rec.TotalPayrollCost.Equal(d("276800")), "payroll cost: %s", rec.TotalPayrollCost)
}

func TestComputeRecord_Deterministic(t *testing.T) {
	cfg := flatTaxConfig(t)
	in := CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")},
			{TypeCode: payconfig.AllowanceOvertime, Amount: d("15000")},
		},
		LoanDeduction: d("10000"),
	}

	first := ComputeRecord(in, cfg)
	second := ComputeRecord(in, cfg)
	assert.True(t, first.NetToPay.Equal(second.NetToPay))
	assert.True(t, first.IncomeTax.Equal(second.IncomeTax))
	assert.True(t, first.TotalPayrollCost.Equal(second.TotalPayrollCost))
}

func TestComputeRecord_ProratesShortMonth(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("260000"),
		StatusCode: "C0",
		DaysWorked: 13,
		DaysAbsent: 13,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("26000")},
			{TypeCode: payconfig.AllowanceOvertime, Amount: d("5000")},
		},
	}, cfg)

	// 13/26 scales base and fixed allowances; overtime is earned and
	// passes through untouched.
	assert.True(t, rec.AdjustedBase.Equal(d("130000")), "adjusted base: %s", rec.AdjustedBase)
	assert.True(t, rec.Allowances[payconfig.AllowanceTransport].Equal(d("13000")))
	assert.True(t, rec.Allowances[payconfig.AllowanceOvertime].Equal(d("5000")))
	assert.True(t, rec.GrossSalary.Equal(d("148000")), "gross: %s", rec.GrossSalary)
	assert.True(t, rec.ContributionBase.Equal(d("135000")), "contribution base: %s", rec.ContributionBase)
}

func TestComputeRecord_TransportDefault(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
	}, cfg)

	// No explicit transport line: defaults to 10% of the adjusted base.
	assert.True(t, rec.Allowances[payconfig.AllowanceTransport].Equal(d("20000")))
	assert.True(t, rec.GrossSalary.Equal(d("220000")))
}

func TestComputeRecord_FamilyAllowanceFromStatus(t *testing.T) {
	cfg := flatTaxConfig(t)
	cfg.FamilyAllowances["M2"] = d("7500")

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "M2",
		DaysWorked: 26,
	}, cfg)

	assert.True(t, rec.Allowances[payconfig.AllowanceFamily].Equal(d("7500")))
	// Family allowance is neither taxable nor subject to contributions.
	assert.True(t, rec.TaxableGross.Equal(d("220000")), "taxable gross: %s", rec.TaxableGross)
	assert.True(t, rec.ContributionBase.Equal(d("200000")))
}

func TestComputeRecord_FamilyReductionLowersTax(t *testing.T) {
	cfg := flatTaxConfig(t)

	single := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")}},
	}, cfg)
	married := ComputeRecord(CalcInput{
		EmployeeID: "emp-2",
		BaseSalary: d("200000"),
		StatusCode: "M2",
		DaysWorked: 26,
		Allowances: []AllowanceLine{{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")}},
	}, cfg)

	// 10% reduction on 41336.
	assert.True(t, single.IncomeTax.Equal(d("41336")))
	assert.True(t, married.IncomeTax.Equal(d("37202.4")), "reduced tax: %s", married.IncomeTax)
}

func TestComputeRecord_LoanCappedAtNet(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")},
		},
		LoanDeduction: d("200000"),
	}, cfg)

	// Net before loans is 165344; the withholding is capped there and
	// the rest surfaces as a shortfall instead of a negative payslip.
	assert.True(t, rec.LoanDeduction.Equal(d("165344")), "deduction: %s", rec.LoanDeduction)
	assert.True(t, rec.LoanShortfall.Equal(d("34656")), "shortfall: %s", rec.LoanShortfall)
	assert.True(t, rec.NetToPay.IsZero(), "net to pay: %s", rec.NetToPay)
}

func TestComputeRecord_LoanWithinNet(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")},
		},
		LoanDeduction: d("10000"),
	}, cfg)

	assert.True(t, rec.LoanDeduction.Equal(d("10000")))
	assert.True(t, rec.LoanShortfall.IsZero())
	assert.True(t, rec.NetToPay.Equal(d("155344")), "net to pay: %s", rec.NetToPay)
}

func TestComputeRecord_NetFlooredWhenContributionsExceedGross(t *testing.T) {
	cfg := flatTaxConfig(t)
	cfg.Rates.INPSEmployee = d("0.90")
	cfg.Rates.AMOEmployee = d("0.30")
	cfg.Rates.TransportRate = decimal.Zero

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("100000"),
		StatusCode: "C0",
		DaysWorked: 26,
	}, cfg)

	// Contributions of 120% of the gross: the payslip bottoms out at
	// zero instead of going negative.
	assert.True(t, rec.NetSalary.IsZero(), "net salary: %s", rec.NetSalary)
	assert.True(t, rec.NetToPay.IsZero(), "net to pay: %s", rec.NetToPay)
	assert.False(t, rec.NetSalary.IsNegative())
	assert.False(t, rec.NetToPay.IsNegative())
}

func TestComputeRecord_LoanAgainstZeroNetAllShortfall(t *testing.T) {
	cfg := flatTaxConfig(t)
	cfg.Rates.INPSEmployee = d("0.90")
	cfg.Rates.AMOEmployee = d("0.30")
	cfg.Rates.TransportRate = decimal.Zero

	rec := ComputeRecord(CalcInput{
		EmployeeID:    "emp-1",
		BaseSalary:    d("100000"),
		StatusCode:    "C0",
		DaysWorked:    26,
		LoanDeduction: d("5000"),
	}, cfg)

	assert.True(t, rec.LoanDeduction.IsZero(), "deduction: %s", rec.LoanDeduction)
	assert.True(t, rec.LoanShortfall.Equal(d("5000")), "shortfall: %s", rec.LoanShortfall)
	assert.True(t, rec.NetToPay.IsZero(), "net to pay: %s", rec.NetToPay)
}

func TestComputeRecord_UnknownAllowanceFullyIncluded(t *testing.T) {
	cfg := flatTaxConfig(t)

	rec := ComputeRecord(CalcInput{
		EmployeeID: "emp-1",
		BaseSalary: d("200000"),
		StatusCode: "C0",
		DaysWorked: 26,
		Allowances: []AllowanceLine{
			{TypeCode: payconfig.AllowanceTransport, Amount: d("20000")},
			{TypeCode: "SITE_PREMIUM", Amount: d("5000")},
		},
	}, cfg)

	// A code without a classification row counts everywhere rather than
	// silently escaping tax.
	assert.True(t, rec.GrossSalary.Equal(d("225000")))
	assert.True(t, rec.TaxableGross.Equal(d("225000")))
	assert.True(t, rec.ContributionBase.Equal(d("205000")))
}
