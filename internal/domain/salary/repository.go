package salary

import "context"

type ListFilter struct {
	EmployeeID    *string
	StoreID       *string
	Month         *int
	Year          *int
	PublishedOnly bool
}

type SalaryRepository interface {
	// Create fails with ErrSalaryExists when the period already has a row.
	Create(ctx context.Context, s *Salary) error
	GetByID(ctx context.Context, id string) (*Salary, error)
	GetByPeriod(ctx context.Context, employeeID string, month, year int) (*Salary, error)
	Update(ctx context.Context, s *Salary) error
	List(ctx context.Context, filter ListFilter) ([]Salary, error)
}
