package salaryscale

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	CategoryCode   string          `json:"category_code"`
	EffectiveDate  string          `json:"effective_date"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	IndSpec1973    decimal.Decimal `json:"ind_spec_1973"`
	IndCherVie1974 decimal.Decimal `json:"ind_cher_vie_1974"`
	IndSol1991     decimal.Decimal `json:"ind_sol_1991"`
	CumulativeMaj  decimal.Decimal `json:"cumulative_maj"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CategoryCode) {
		errs = append(errs, validator.ValidationError{Field: "category_code", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be YYYY-MM-DD"})
	}
	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be positive"})
	}
	for field, v := range map[string]decimal.Decimal{
		"ind_spec_1973":     r.IndSpec1973,
		"ind_cher_vie_1974": r.IndCherVie1974,
		"ind_sol_1991":      r.IndSol1991,
		"cumulative_maj":    r.CumulativeMaj,
	} {
		if v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity parses the validated request; AdjustedBase is recomputed on
// insert.
func (r *CreateEntryRequest) ToEntity() Entry {
	effective, _ := validator.IsValidDate(r.EffectiveDate)
	return Entry{
		CategoryCode:   strings.ToUpper(strings.TrimSpace(r.CategoryCode)),
		EffectiveDate:  effective,
		BaseSalary:     r.BaseSalary,
		IndSpec1973:    r.IndSpec1973,
		IndCherVie1974: r.IndCherVie1974,
		IndSol1991:     r.IndSol1991,
		CumulativeMaj:  r.CumulativeMaj,
	}
}
