package employee

import (
	"strings"

	"github.com/paiero-app/paiero-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Code           string  `json:"code"`
	FullName       string  `json:"full_name"`
	Position       *string `json:"position,omitempty"`
	DepartmentCode *string `json:"department_code,omitempty"`
	HireDate       string  `json:"hire_date"`
	ContractEnd    *string `json:"contract_end,omitempty"`
	CategoryCode   string  `json:"category_code"`
	StatusCode     string  `json:"status_code"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(strings.ToUpper(strings.TrimSpace(r.Code))) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 3-10 uppercase alphanumerics"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be YYYY-MM-DD"})
	}
	if r.ContractEnd != nil {
		if _, ok := validator.IsValidDate(*r.ContractEnd); !ok {
			errs = append(errs, validator.ValidationError{Field: "contract_end", Message: "must be YYYY-MM-DD"})
		}
	}
	if validator.IsEmpty(r.CategoryCode) {
		errs = append(errs, validator.ValidationError{Field: "category_code", Message: "is required"})
	}
	if !validator.IsValidStatusCode(r.StatusCode) {
		errs = append(errs, validator.ValidationError{Field: "status_code", Message: "must be marital letter plus dependents, e.g. C0 or M3"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity parses the validated request into an Employee.
func (r *CreateEmployeeRequest) ToEntity() Employee {
	hire, _ := validator.IsValidDate(r.HireDate)
	emp := Employee{
		Code:         strings.ToUpper(strings.TrimSpace(r.Code)),
		FullName:     strings.TrimSpace(r.FullName),
		Position:     r.Position,
		HireDate:     hire,
		CategoryCode: strings.ToUpper(strings.TrimSpace(r.CategoryCode)),
		StatusCode:   strings.ToUpper(strings.TrimSpace(r.StatusCode)),
		IsActive:     true,
	}
	emp.DepartmentCode = r.DepartmentCode
	if r.ContractEnd != nil {
		end, _ := validator.IsValidDate(*r.ContractEnd)
		emp.ContractEnd = &end
	}
	return emp
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	FullName       string  `json:"full_name"`
	Position       *string `json:"position,omitempty"`
	DepartmentCode *string `json:"department_code,omitempty"`
	HireDate       string  `json:"hire_date"`
	ContractEnd    *string `json:"contract_end,omitempty"`
	CategoryCode   string  `json:"category_code"`
	StatusCode     string  `json:"status_code"`
	IsActive       bool    `json:"is_active"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		Code:           e.Code,
		FullName:       e.FullName,
		Position:       e.Position,
		DepartmentCode: e.DepartmentCode,
		HireDate:       e.HireDate.Format("2006-01-02"),
		CategoryCode:   e.CategoryCode,
		StatusCode:     e.StatusCode,
		IsActive:       e.IsActive,
	}
	if e.ContractEnd != nil {
		s := e.ContractEnd.Format("2006-01-02")
		resp.ContractEnd = &s
	}
	return resp
}
