package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/domain/loan"
	"github.com/paiero-app/paiero-backend-go/internal/domain/payconfig"
	"github.com/paiero-app/paiero-backend-go/internal/domain/payroll"
	"github.com/paiero-app/paiero-backend-go/internal/domain/salaryscale"
	"github.com/paiero-app/paiero-backend-go/internal/domain/tax"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Finalization blocked by missing records: a conflict the caller
	// resolves by running payroll for the listed employees.
	var incomplete *payroll.IncompleteDataError
	if errors.As(err, &incomplete) {
		Conflict(w, "Cannot finalize period with missing payroll records", map[string]string{
			"missing_employees": strings.Join(incomplete.MissingEmployees, ", "),
		})
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodExists):
		Conflict(w, "A period with these bounds already exists", nil)
	case errors.Is(err, payroll.ErrPeriodFinalized):
		Conflict(w, "Payroll period is finalized", nil)
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRecordExists):
		Conflict(w, "Payroll record already exists for this employee and period", nil)

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrPaymentNotFound):
		NotFound(w, "Loan payment not found")

	// Configuration errors: the caller asked for a date no table covers.
	case errors.Is(err, salaryscale.ErrEntryNotFound):
		BadRequest(w, "No salary scale entry covers the requested category and date", nil)
	case errors.Is(err, tax.ErrBracketTableNotFound):
		BadRequest(w, "No tax bracket table covers the requested date", nil)
	case errors.Is(err, payconfig.ErrRateSetNotFound):
		BadRequest(w, "No contribution rate set covers the requested date", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
