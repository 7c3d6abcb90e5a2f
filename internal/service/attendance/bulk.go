package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

// BulkMarkNonWorkingDay writes a non-working-day row for every employee of
// every store that is closed on date, skipping employees who already have a
// row. Each store is retried on transient errors and a store that still fails
// is reported in the result without aborting the run.
func (s *AttendanceServiceImpl) BulkMarkNonWorkingDay(ctx context.Context, date time.Time, kind attendance.NonWorkingKind) (*attendance.BulkMarkResult, error) {
	switch kind {
	case attendance.KindHoliday, attendance.KindWeekdayOff, attendance.KindAuto:
	default:
		return nil, fmt.Errorf("unknown non-working day kind %q", kind)
	}

	date = dateutil.Truncate(date)
	result := &attendance.BulkMarkResult{Date: dateutil.Key(date), Kind: kind}
	started := time.Now()

	after := ""
	for {
		var page []store.Store
		_, err := s.retry(ctx, func() error {
			var err error
			page, err = s.storeRepo.List(ctx, after, s.bulk.BatchSize)
			return err
		})
		if err != nil {
			return result, fmt.Errorf("failed to list stores: %w", err)
		}

		for i := range page {
			s.markStore(ctx, &page[i], date, kind, result)
		}

		if len(page) < s.bulk.BatchSize {
			break
		}
		after = page[len(page)-1].ID
	}

	slog.Info("non-working day marked",
		"date", result.Date,
		"kind", kind,
		"stores_scanned", result.StoresScanned,
		"stores_matched", result.StoresMatched,
		"stores_succeeded", result.StoresSucceeded,
		"stores_failed", result.StoresFailed,
		"rows_created", result.RowsCreated,
		"duration", time.Since(started).String(),
	)
	return result, nil
}

func (s *AttendanceServiceImpl) markStore(ctx context.Context, st *store.Store, date time.Time, kind attendance.NonWorkingKind, result *attendance.BulkMarkResult) {
	result.StoresScanned++

	var (
		matched bool
		created int64
	)
	attempts, err := s.retry(ctx, func() error {
		cal, err := s.calendar.Calendar(ctx, st.ID)
		if err != nil {
			return err
		}
		status, ok := statusFor(cal, date, kind)
		if !ok {
			matched = false
			return nil
		}
		matched = true

		n, err := s.markEmployees(ctx, st.ID, date, status)
		created += n
		return err
	})

	if err != nil {
		result.StoresFailed++
		result.Failures = append(result.Failures, attendance.StoreFailure{
			StoreID:  st.ID,
			Attempts: attempts,
			Error:    err.Error(),
		})
		slog.Error("non-working day marking failed for store", "store_id", st.ID, "attempts", attempts, "error", err)
		return
	}
	if matched {
		result.StoresMatched++
		result.StoresSucceeded++
		result.RowsCreated += created
	}
}

// markEmployees pages through the store's employees and inserts the missing rows.
func (s *AttendanceServiceImpl) markEmployees(ctx context.Context, storeID string, date time.Time, status attendance.Status) (int64, error) {
	var created int64
	after := ""
	for {
		employees, err := s.employeeRepo.ListByStore(ctx, storeID, after, s.bulk.BatchSize)
		if err != nil {
			return created, err
		}
		if len(employees) == 0 {
			return created, nil
		}

		ids := make([]string, len(employees))
		for i, e := range employees {
			ids[i] = e.ID
		}
		n, err := s.AttendanceRepository.CreateMissing(ctx, ids, date, status)
		created += n
		if err != nil {
			return created, err
		}

		if len(employees) < s.bulk.BatchSize {
			return created, nil
		}
		after = employees[len(employees)-1].ID
	}
}

// statusFor decides whether the store is closed on date and with which status.
func statusFor(cal *store.Calendar, date time.Time, kind attendance.NonWorkingKind) (attendance.Status, bool) {
	if !cal.IsNonWorkingDay(date) {
		return "", false
	}
	switch kind {
	case attendance.KindHoliday:
		return attendance.StatusHoliday, true
	case attendance.KindWeekdayOff:
		return attendance.StatusWeekdayOff, true
	}
	if cal.IsHoliday(date) {
		return attendance.StatusHoliday, true
	}
	return attendance.StatusWeekdayOff, true
}

// retry runs op with bounded exponential backoff. Only transient database
// errors are retried. It returns the number of attempts made.
func (s *AttendanceServiceImpl) retry(ctx context.Context, op func() error) (int, error) {
	attempts := 0
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.bulk.InitialInterval
	policy.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		attempts++
		err := op()
		if err != nil && !database.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.bulk.MaxAttempts-1)), ctx))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return attempts, err
}
