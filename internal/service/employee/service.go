package employee

import (
	"context"
	"log/slog"

	"github.com/paiero-app/paiero-backend-go/internal/domain/employee"
	"github.com/paiero-app/paiero-backend-go/internal/domain/salaryscale"
	"github.com/paiero-app/paiero-backend-go/internal/pkg/database"
)

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	scaleRepo    salaryscale.Repository
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	scaleRepo salaryscale.Repository,
) employee.Service {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		scaleRepo:    scaleRepo,
	}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp := req.ToEntity()

	// A category nobody can be paid under is a data entry mistake;
	// reject it at hire time rather than at the first payroll run.
	if _, err := s.scaleRepo.ResolveAsOf(ctx, emp.CategoryCode, emp.HireDate); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_code", created.Code, "category", created.CategoryCode)
	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) GetByCode(ctx context.Context, code string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByCode(ctx, code)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, includeInactive bool) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		resp = append(resp, employee.NewEmployeeResponse(emp))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	return s.employeeRepo.SetActive(ctx, id, false)
}

func (s *EmployeeServiceImpl) Reactivate(ctx context.Context, id string) error {
	return s.employeeRepo.SetActive(ctx, id, true)
}
