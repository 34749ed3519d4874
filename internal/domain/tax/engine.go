package tax

import (
	"strings"

	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
	centExp = int32(2)
)

// Engine computes the progressive income tax (ITS) for an annual
// taxable base against an injected bracket table. The table is
// validated up front: a broken partition must never silently compute a
// wrong tax for everyone.
type Engine struct {
	brackets   []Bracket
	reductions map[string]FamilyReduction
}

func NewEngine(brackets []Bracket, reductions map[string]FamilyReduction) (*Engine, error) {
	if err := validateBrackets(brackets); err != nil {
		return nil, err
	}
	if err := validateReductions(reductions); err != nil {
		return nil, err
	}
	if reductions == nil {
		reductions = map[string]FamilyReduction{}
	}
	return &Engine{brackets: brackets, reductions: reductions}, nil
}

// validateBrackets checks that the table partitions [0, inf): ordered
// ascending, first floor at zero, each floor equal to the previous
// ceiling, only the last bracket open-ended, and cumulative tax values
// consistent with the preceding bands.
func validateBrackets(brackets []Bracket) error {
	var errs validator.ValidationErrors

	if len(brackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
		return errs
	}

	if !brackets[0].MinIncome.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "brackets[0].min_income", Message: "first bracket must start at 0"})
	}

	wantCumulative := decimal.Zero
	for i, b := range brackets {
		field := "brackets[" + validator.Itoa(i) + "]"

		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(one) {
			errs = append(errs, validator.ValidationError{Field: field + ".rate", Message: "must be within [0, 1)"})
		}

		last := i == len(brackets)-1
		if last {
			if b.MaxIncome != nil {
				errs = append(errs, validator.ValidationError{Field: field + ".max_income", Message: "top bracket must be open-ended"})
			}
		} else {
			if b.MaxIncome == nil {
				errs = append(errs, validator.ValidationError{Field: field + ".max_income", Message: "only the top bracket may be open-ended"})
				continue
			}
			if !b.MaxIncome.GreaterThan(b.MinIncome) {
				errs = append(errs, validator.ValidationError{Field: field + ".max_income", Message: "must exceed min_income"})
			}
			next := brackets[i+1]
			switch {
			case next.MinIncome.GreaterThan(*b.MaxIncome):
				errs = append(errs, validator.ValidationError{Field: field + ".max_income", Message: "gap before next bracket"})
			case next.MinIncome.LessThan(*b.MaxIncome):
				errs = append(errs, validator.ValidationError{Field: field + ".max_income", Message: "overlaps next bracket"})
			}
		}

		if !b.CumulativeTax.Equal(wantCumulative) {
			errs = append(errs, validator.ValidationError{Field: field + ".cumulative_tax", Message: "inconsistent with preceding brackets"})
		}
		if !last && b.MaxIncome != nil {
			wantCumulative = wantCumulative.Add(b.MaxIncome.Sub(b.MinIncome).Mul(b.Rate))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateReductions(reductions map[string]FamilyReduction) error {
	var errs validator.ValidationErrors
	for code, r := range reductions {
		if r.Rate.IsNegative() || r.Rate.GreaterThanOrEqual(one) {
			errs = append(errs, validator.ValidationError{Field: "reductions[" + code + "]", Message: "rate must be within [0, 1)"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnnualTax returns the gross annual tax for the taxable base. A base
// exactly on a boundary falls in the higher bracket.
func (e *Engine) AnnualTax(annualBase decimal.Decimal) decimal.Decimal {
	if annualBase.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	for _, b := range e.brackets {
		if annualBase.LessThan(b.MinIncome) {
			continue
		}
		if b.MaxIncome != nil && annualBase.GreaterThanOrEqual(*b.MaxIncome) {
			continue
		}
		return b.CumulativeTax.Add(annualBase.Sub(b.MinIncome).Mul(b.Rate))
	}
	return decimal.Zero
}

// MonthlyTax applies the family reduction to the annual tax and
// converts to a monthly amount rounded to the minor unit.
func (e *Engine) MonthlyTax(annualBase, reductionRate decimal.Decimal) decimal.Decimal {
	gross := e.AnnualTax(annualBase)
	net := gross.Mul(one.Sub(reductionRate))
	return net.Div(twelve).Round(centExp)
}

// ReductionFor returns the family reduction rate for a status code,
// zero when the code is absent from the table.
func (e *Engine) ReductionFor(statusCode string) decimal.Decimal {
	code := strings.ToUpper(strings.TrimSpace(statusCode))
	if r, ok := e.reductions[code]; ok {
		return r.Rate
	}
	return decimal.Zero
}
