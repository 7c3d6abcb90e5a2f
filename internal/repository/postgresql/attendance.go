package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

const attendanceColumns = `
	id, employee_id, date, status, in_time, out_time,
	is_late_entry, is_early_exit, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.InTime, &a.OutTime,
		&a.IsLateEntry, &a.IsEarlyExit, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, status, in_time, out_time, is_late_entry, is_early_exit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.Date, a.Status, a.InTime, a.OutTime, a.IsLateEntry, a.IsEarlyExit,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.ErrAttendanceExists
		}
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

func (r *attendanceRepository) RecordPunchIn(ctx context.Context, a *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $1, in_time = $2, is_late_entry = $3, updated_at = NOW()
		WHERE id = $4 AND in_time IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, a.Status, a.InTime, a.IsLateEntry, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAlreadyPunchedIn
		}
		return fmt.Errorf("failed to record punch-in: %w", err)
	}
	return nil
}

func (r *attendanceRepository) RecordPunchOut(ctx context.Context, a *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET out_time = $1, is_early_exit = $2, updated_at = NOW()
		WHERE id = $3 AND in_time IS NOT NULL AND out_time IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, a.OutTime, a.IsEarlyExit, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAlreadyPunchedOut
		}
		return fmt.Errorf("failed to record punch-out: %w", err)
	}
	return nil
}

func (r *attendanceRepository) ListByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = ANY($1::uuid[]) AND date BETWEEN $2 AND $3
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var out []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CreateMissing relies on the (employee_id, date) unique key, so reruns and
// concurrent runs never duplicate or overwrite a row.
func (r *attendanceRepository) CreateMissing(ctx context.Context, employeeIDs []string, date time.Time, status attendance.Status) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, status)
		SELECT unnest($1::uuid[]), $2, $3
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, employeeIDs, date, status)
	if err != nil {
		return 0, fmt.Errorf("failed to create missing attendance: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *attendanceRepository) UpsertStatus(ctx context.Context, employeeID string, dates []time.Time, status attendance.Status) error {
	if len(dates) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, status)
		SELECT $1, unnest($2::date[]), $3
		ON CONFLICT (employee_id, date) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, employeeID, dates, status); err != nil {
		return fmt.Errorf("failed to upsert attendance status: %w", err)
	}
	return nil
}

func (r *attendanceRepository) ReplaceStatus(ctx context.Context, employeeID string, from, to time.Time, oldStatus, newStatus attendance.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $1, updated_at = NOW()
		WHERE employee_id = $2 AND date BETWEEN $3 AND $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, newStatus, employeeID, from, to, oldStatus)
	if err != nil {
		return 0, fmt.Errorf("failed to replace attendance status: %w", err)
	}
	return tag.RowsAffected(), nil
}
