package salaryscale

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row of the collective-agreement salary grid: the 1958
// base plus the historical indemnities that sum into the adjusted base
// salary actually paid. Several entries may exist per category, one per
// effective date.
type Entry struct {
	ID             string          `json:"id"`
	CategoryCode   string          `json:"category_code"`
	EffectiveDate  time.Time       `json:"effective_date"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	IndSpec1973    decimal.Decimal `json:"ind_spec_1973"`
	IndCherVie1974 decimal.Decimal `json:"ind_cher_vie_1974"`
	IndSol1991     decimal.Decimal `json:"ind_sol_1991"`
	CumulativeMaj  decimal.Decimal `json:"cumulative_maj"`
	AdjustedBase   decimal.Decimal `json:"adjusted_base"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ComputeAdjustedBase sums the base and every indemnity add-on. Stored
// entries carry the precomputed value; this recomputes it for
// validation on import.
func (e Entry) ComputeAdjustedBase() decimal.Decimal {
	return e.BaseSalary.
		Add(e.IndSpec1973).
		Add(e.IndCherVie1974).
		Add(e.IndSol1991).
		Add(e.CumulativeMaj)
}
