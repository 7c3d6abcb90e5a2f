package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when there is no row.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Create fails with ErrAttendanceExists when the (employee, date) row exists.
	Create(ctx context.Context, a *Attendance) error

	// RecordPunchIn stores the status, in-time and late flag of an existing
	// row that has no in-time yet, else fails with ErrAlreadyPunchedIn.
	RecordPunchIn(ctx context.Context, a *Attendance) error

	// RecordPunchOut stores the out-time and early flag of a punched-in row
	// that has no out-time yet, else fails with ErrAlreadyPunchedOut.
	RecordPunchOut(ctx context.Context, a *Attendance) error

	// ListByEmployees returns rows for the employees within [from, to].
	ListByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]Attendance, error)

	// CreateMissing inserts a row with status for every employee that has no
	// row on date and returns how many were inserted.
	CreateMissing(ctx context.Context, employeeIDs []string, date time.Time, status Status) (int64, error)

	// UpsertStatus sets status on the employee's rows for dates, creating them
	// where missing.
	UpsertStatus(ctx context.Context, employeeID string, dates []time.Time, status Status) error

	// ReplaceStatus moves rows in [from, to] whose status is oldStatus to newStatus.
	ReplaceStatus(ctx context.Context, employeeID string, from, to time.Time, oldStatus, newStatus Status) (int64, error)
}
