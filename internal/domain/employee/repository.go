package employee

import "context"

// ListFilter narrows List; a nil StoreID lists every employee.
type ListFilter struct {
	StoreID *string
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*Employee, error)

	// GetForUpdate reads the employee and locks the row until the enclosing
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)

	// ListByStore pages through a store's employees ordered by id, starting
	// after afterID.
	ListByStore(ctx context.Context, storeID string, afterID string, limit int) ([]Employee, error)

	// DecrementLeaveDays fails with ErrInsufficientLeaveBalance when the
	// balance would go negative.
	DecrementLeaveDays(ctx context.Context, id string, days float64) error
	AddCompOff(ctx context.Context, id string, amount float64) error
}
