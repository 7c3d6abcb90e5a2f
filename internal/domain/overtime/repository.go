package overtime

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID *string
	StoreID    *string
	Status     *Status
	From       *time.Time
	To         *time.Time
}

type OvertimeRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)

	// UpdateDecision stores the decision fields of r. It fails with
	// ErrOvertimeAlreadyProcessed unless the stored request is still pending.
	UpdateDecision(ctx context.Context, r *Request) error

	List(ctx context.Context, filter ListFilter) ([]Request, error)

	// ExistsActive reports whether a pending or approved request exists for the employee on date.
	ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// SumApprovedHours sums approved hours of approved requests in [from, to].
	SumApprovedHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error)
}
