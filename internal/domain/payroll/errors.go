package payroll

import (
	"errors"
	"strings"
)

var (
	ErrPeriodNotFound  = errors.New("payroll period not found")
	ErrPeriodExists    = errors.New("a period with these bounds already exists")
	ErrPeriodFinalized = errors.New("payroll period is finalized")
	ErrRecordNotFound  = errors.New("payroll record not found")
	ErrRecordExists    = errors.New("payroll record already exists for this employee and period")
)

// IncompleteDataError blocks finalization while active employees still
// lack a payroll record; it names them so the caller can fix the run.
type IncompleteDataError struct {
	MissingEmployees []string // employee codes
}

func (e *IncompleteDataError) Error() string {
	return "cannot finalize: missing payroll records for " + strings.Join(e.MissingEmployees, ", ")
}
