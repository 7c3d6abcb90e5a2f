package compoff

import (
	"context"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
)

type CompOffService interface {
	// Accrue credits comp-off for a completed punch on a holiday or weekly
	// off. It joins the caller's transaction and returns nil, nil when the
	// date is a working day.
	Accrue(ctx context.Context, emp *employee.Employee, att *attendance.Attendance) (*History, error)

	// ListHistory lists the caller's history, or employeeID's when set.
	ListHistory(ctx context.Context, employeeID string) ([]HistoryResponse, error)
}
