package employee

import "context"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetByCode(ctx context.Context, code string) (EmployeeResponse, error)
	List(ctx context.Context, includeInactive bool) ([]EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}
