package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bracket is one marginal rate band. MinIncome is inclusive, MaxIncome
// exclusive; a nil MaxIncome marks the open-ended top bracket.
// CumulativeTax is the total tax owed on all income below MinIncome.
type Bracket struct {
	MinIncome     decimal.Decimal  `json:"min_income"`
	MaxIncome     *decimal.Decimal `json:"max_income,omitempty"`
	Rate          decimal.Decimal  `json:"rate"`
	CumulativeTax decimal.Decimal  `json:"cumulative_tax"`
	EffectiveDate time.Time        `json:"effective_date"`
}

// FamilyReduction maps a family status code to the multiplicative
// discount applied to the computed annual tax.
type FamilyReduction struct {
	StatusCode    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
}
