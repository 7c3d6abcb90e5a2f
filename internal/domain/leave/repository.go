package leave

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID *string
	StoreID    *string
	Status     *Status
	Stage      *Stage
}

type LeaveRepository interface {
	Create(ctx context.Context, l *Leave) error
	GetByID(ctx context.Context, id string) (*Leave, error)

	// UpdateStage stores the status, stage and approver fields of l. It fails
	// with ErrLeaveAlreadyProcessed unless the stored leave is pending at from.
	UpdateStage(ctx context.Context, l *Leave, from Stage) error


	// DeletePending removes a leave that is still pending and fails with
	// ErrLeaveNotPending otherwise.
	DeletePending(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Leave, error)

	// HasOverlap reports whether the employee has a leave intersecting
	// [start, end] whose status is not in exclude.
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time, exclude []Status) (bool, error)

	// ListApproved returns approved leaves intersecting [from, to].
	ListApproved(ctx context.Context, employeeID string, from, to time.Time) ([]Leave, error)

	CreateHistory(ctx context.Context, h *History) error
	ListHistory(ctx context.Context, leaveID string) ([]History, error)
	DeleteHistory(ctx context.Context, leaveID string) error
}
