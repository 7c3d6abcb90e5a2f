package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

const storeColumns = `
	s.id, s.name, s.late_entry_threshold, s.early_exit_threshold,
	(DATE '2000-01-01' + s.expected_in_time), (DATE '2000-01-01' + s.expected_out_time),
	s.director_id, s.hr_id, s.created_at, s.updated_at`

type storeRepositoryImpl struct {
	db *database.DB
}

func NewStoreRepository(db *database.DB) store.StoreRepository {
	return &storeRepositoryImpl{db: db}
}

func scanStore(row pgx.Row) (*store.Store, error) {
	var s store.Store
	err := row.Scan(
		&s.ID, &s.Name, &s.LateEntryThreshold, &s.EarlyExitThreshold,
		&s.ExpectedInTime, &s.ExpectedOutTime,
		&s.DirectorID, &s.HRID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, store.ErrStoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *storeRepositoryImpl) GetByID(ctx context.Context, id string) (*store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + storeColumns + ` FROM stores s WHERE s.id = $1`

	s, err := scanStore(q.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, store.ErrStoreNotFound) {
		return nil, fmt.Errorf("failed to get store %s: %w", id, err)
	}
	return s, err
}

func (r *storeRepositoryImpl) List(ctx context.Context, afterID string, limit int) ([]store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + storeColumns + `
		FROM stores s
		WHERE ($1::uuid IS NULL OR s.id > $1::uuid)
		ORDER BY s.id
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, nullable(afterID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []store.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *s)
	}
	return stores, rows.Err()
}

func (r *storeRepositoryImpl) ManagedStore(ctx context.Context, employeeID string) (*store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + storeColumns + `
		FROM stores s
		WHERE s.director_id = $1 OR s.hr_id = $1
		ORDER BY s.id
		LIMIT 1
	`

	s, err := scanStore(q.QueryRow(ctx, query, employeeID))
	if errors.Is(err, store.ErrStoreNotFound) {
		return r.EmployeeStore(ctx, employeeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve managed store: %w", err)
	}
	return s, nil
}

func (r *storeRepositoryImpl) EmployeeStore(ctx context.Context, employeeID string) (*store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + storeColumns + `
		FROM stores s
		INNER JOIN employees e ON e.store_id = s.id
		WHERE e.id = $1
	`

	s, err := scanStore(q.QueryRow(ctx, query, employeeID))
	if err != nil && !errors.Is(err, store.ErrStoreNotFound) {
		return nil, fmt.Errorf("failed to resolve employee store: %w", err)
	}
	return s, err
}

func (r *storeRepositoryImpl) GetCalendar(ctx context.Context, storeID string) (*store.Calendar, error) {
	q := GetQuerier(ctx, r.db)

	var cal store.Calendar
	err := q.QueryRow(ctx, `SELECT id, store_id, weekly_off FROM store_calendars WHERE store_id = $1`, storeID).
		Scan(&cal.ID, &cal.StoreID, &cal.WeeklyOff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, store.ErrCalendarNotFound
		}
		return nil, fmt.Errorf("failed to get calendar of store %s: %w", storeID, err)
	}

	query := `
		SELECT id, calendar_id, date, name, description, created_at
		FROM holidays
		WHERE calendar_id = $1
		ORDER BY date, id
	`

	rows, err := q.Query(ctx, query, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h store.Holiday
		if err := rows.Scan(&h.ID, &h.CalendarID, &h.Date, &h.Name, &h.Description, &h.CreatedAt); err != nil {
			return nil, err
		}
		cal.Holidays = append(cal.Holidays, h)
	}
	return &cal, rows.Err()
}

// UpdateWeeklyOff creates the calendar on first write.
func (r *storeRepositoryImpl) UpdateWeeklyOff(ctx context.Context, storeID string, day string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO store_calendars (store_id, weekly_off)
		VALUES ($1, $2)
		ON CONFLICT (store_id) DO UPDATE SET weekly_off = EXCLUDED.weekly_off
	`

	if _, err := q.Exec(ctx, query, storeID, day); err != nil {
		return fmt.Errorf("failed to update weekly off: %w", err)
	}
	return nil
}

func (r *storeRepositoryImpl) CreateHoliday(ctx context.Context, storeID string, h *store.Holiday) error {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH cal AS (
			INSERT INTO store_calendars (store_id) VALUES ($1)
			ON CONFLICT (store_id) DO UPDATE SET store_id = EXCLUDED.store_id
			RETURNING id
		)
		INSERT INTO holidays (calendar_id, date, name, description)
		SELECT cal.id, $2, $3, $4 FROM cal
		RETURNING id, calendar_id, created_at
	`

	err := q.QueryRow(ctx, query, storeID, h.Date, h.Name, h.Description).Scan(&h.ID, &h.CalendarID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (r *storeRepositoryImpl) DeleteHoliday(ctx context.Context, storeID string, holidayID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM holidays h
		USING store_calendars c
		WHERE h.calendar_id = c.id AND c.store_id = $1 AND h.id = $2
	`

	tag, err := q.Exec(ctx, query, storeID, holidayID)
	if err != nil {
		if isInvalidText(err) {
			return store.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrHolidayNotFound
	}
	return nil
}
