package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, employee_code, full_name, position, department_code,
	hire_date, contract_end, category_code, status_code, is_active,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Code, &emp.FullName, &emp.Position, &emp.DepartmentCode,
		&emp.HireDate, &emp.ContractEnd, &emp.CategoryCode, &emp.StatusCode, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, position, department_code,
			hire_date, contract_end, category_code, status_code, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Code, emp.FullName, emp.Position, emp.DepartmentCode,
		emp.HireDate, emp.ContractEnd, emp.CategoryCode, emp.StatusCode, emp.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err, "employees_employee_code_key") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return e.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE is_active ORDER BY employee_code`)
}

func (e *employeeRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]employee.Employee, error) {
	if !includeInactive {
		return e.ListActive(ctx)
	}
	return e.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_code`)
}

func (e *employeeRepositoryImpl) list(ctx context.Context, query string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (e *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, active, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee active flag: %w", err)
	}
	return nil
}
