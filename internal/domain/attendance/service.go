package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchRequest) (*AttendanceResponse, error)
	PunchOut(ctx context.Context, req PunchRequest) (*AttendanceResponse, error)

	// List returns one entry per employee per date, synthesising absent
	// placeholders for dates without a row.
	List(ctx context.Context, query ListAttendanceQuery) ([]AttendanceResponse, error)

	// MarkNonWorkingDay is the permission-checked entry point to BulkMarkNonWorkingDay.
	MarkNonWorkingDay(ctx context.Context, req MarkNonWorkingDayRequest) (*BulkMarkResult, error)

	// BulkMarkNonWorkingDay is idempotent and tolerates per-store failures.
	BulkMarkNonWorkingDay(ctx context.Context, date time.Time, kind NonWorkingKind) (*BulkMarkResult, error)
}
