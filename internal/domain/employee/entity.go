package employee

import "time"

// Employee is the HR master record referenced by payroll records and
// loans. Payroll never owns employees; it reads them.
type Employee struct {
	ID             string
	Code           string
	FullName       string
	Position       *string
	DepartmentCode *string
	HireDate       time.Time
	ContractEnd    *time.Time
	CategoryCode   string
	StatusCode     string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
