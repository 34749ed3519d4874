package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, includeInactive bool) ([]Employee, error)
	SetActive(ctx context.Context, id string, active bool) error
}
