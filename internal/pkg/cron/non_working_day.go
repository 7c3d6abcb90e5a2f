package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

// NonWorkingDayJobs marks holidays and weekly offs once a day.
type NonWorkingDayJobs struct {
	attendanceSvc attendance.AttendanceService
	loc           *time.Location
	now           func() time.Time
}

func NewNonWorkingDayJobs(attendanceSvc attendance.AttendanceService, loc *time.Location) *NonWorkingDayJobs {
	return &NonWorkingDayJobs{
		attendanceSvc: attendanceSvc,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *NonWorkingDayJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("mark_non_working_day", spec, j.MarkToday)
}

// MarkToday runs the bulk non-working-day marking for today's date in the
// business time zone. Partial store failures are logged, not returned.
func (j *NonWorkingDayJobs) MarkToday(ctx context.Context) error {
	date := dateutil.DateIn(j.now(), j.loc)
	slog.Info("Cron: Starting non-working-day marking", "date", dateutil.Key(date))

	result, err := j.attendanceSvc.BulkMarkNonWorkingDay(ctx, date, attendance.KindAuto)
	if err != nil {
		return fmt.Errorf("mark non-working day: %w", err)
	}

	for _, f := range result.Failures {
		slog.Error("Cron: Store failed during non-working-day marking",
			"store_id", f.StoreID, "attempts", f.Attempts, "error", f.Error)
	}
	slog.Info("Cron: Non-working-day marking completed",
		"date", result.Date,
		"stores_matched", result.StoresMatched,
		"stores_succeeded", result.StoresSucceeded,
		"stores_failed", result.StoresFailed,
		"rows_created", result.RowsCreated,
	)
	return nil
}
