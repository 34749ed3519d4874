package payconfig

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
)

var one = decimal.NewFromInt(1)

// RateSet is the effective-dated bundle of contribution and payroll-tax
// rates. Rates are data, never constants compiled into the engine.
type RateSet struct {
	ID            string    `json:"id"`
	EffectiveDate time.Time `json:"effective_date"`

	INPSEmployee decimal.Decimal `json:"inps_employee"`
	INPSEmployer decimal.Decimal `json:"inps_employer"`
	AMOEmployee  decimal.Decimal `json:"amo_employee"`
	AMOEmployer  decimal.Decimal `json:"amo_employer"`

	// Employer-only labor taxes.
	TaxeLogement    decimal.Decimal `json:"taxe_logement"`    // TL
	TaxeFormation   decimal.Decimal `json:"taxe_formation"`   // TFP
	TaxeEmploi      decimal.Decimal `json:"taxe_emploi"`      // ATEJ
	ContributionCFE decimal.Decimal `json:"contribution_cfe"` // CFE

	// Transport allowance default when the employee has no explicit row,
	// as a fraction of adjusted base.
	TransportRate decimal.Decimal `json:"transport_rate"`

	StandardDays int `json:"standard_days"`
}

// Validate rejects a rate set whose rates fall outside [0, 1). Rates
// are jurisdiction data loaded at run time, so a malformed row must
// fail the run before any employee is computed rather than produce a
// negative payslip.
func (r RateSet) Validate() error {
	var errs validator.ValidationErrors
	for _, f := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"inps_employee", r.INPSEmployee},
		{"inps_employer", r.INPSEmployer},
		{"amo_employee", r.AMOEmployee},
		{"amo_employer", r.AMOEmployer},
		{"taxe_logement", r.TaxeLogement},
		{"taxe_formation", r.TaxeFormation},
		{"taxe_emploi", r.TaxeEmploi},
		{"contribution_cfe", r.ContributionCFE},
		{"transport_rate", r.TransportRate},
	} {
		if f.rate.IsNegative() || f.rate.GreaterThanOrEqual(one) {
			errs = append(errs, validator.ValidationError{Field: "rates." + f.name, Message: "must be within [0, 1)"})
		}
	}
	if r.StandardDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "rates.standard_days", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AllowanceType classifies an allowance code for the calculation:
// whether it enters the taxable gross and whether it is subject to the
// INPS/AMO contribution base ("soumis"). Jurisdiction data, not code.
type AllowanceType struct {
	Code            string
	Label           string
	Taxable         bool
	SubjectToSocial bool
	EffectiveDate   time.Time
}

// FamilyAllowance maps a family status code to the flat monthly family
// allowance amount.
type FamilyAllowance struct {
	StatusCode    string
	Amount        decimal.Decimal
	EffectiveDate time.Time
}

// EmployeeAllowance is a recurring allowance granted to one employee.
type EmployeeAllowance struct {
	ID            string
	EmployeeID    string
	TypeCode      string
	Amount        decimal.Decimal
	EffectiveDate time.Time
	EndDate       *time.Time
}

// Well-known allowance codes used by the calculator for defaulting
// rules. Any other code is still carried through the computation.
const (
	AllowanceTransport      = "TRANSPORT"
	AllowanceFamily         = "FAMILY"
	AllowanceResponsibility = "RESPONSIBILITY"
	AllowanceRisk           = "RISK"
	AllowanceHousing        = "HOUSING"
	AllowanceOvertime       = "OVERTIME"
	AllowanceBonus          = "BONUS"
	AllowanceIndSpec1973    = "IND_SPEC_1973"
	AllowanceCherVie1974    = "CHER_VIE_1974"
)
