package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

const overtimeColumns = `
	o.id, o.employee_id, o.date, o.requested_hours, o.remarks, o.status,
	o.approver_id, o.approved_hours, o.approved_at, o.decision_remark, o.created_at, o.updated_at`

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

func scanOvertime(row pgx.Row) (*overtime.Request, error) {
	var o overtime.Request
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Date, &o.RequestedHours, &o.Remarks, &o.Status,
		&o.ApproverID, &o.ApprovedHours, &o.ApprovedAt, &o.DecisionRemark, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create maps the partial unique index on active requests to ErrOvertimeExists.
func (r *overtimeRepositoryImpl) Create(ctx context.Context, o *overtime.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (employee_id, date, requested_hours, remarks, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, o.EmployeeID, o.Date, o.RequestedHours, o.Remarks, o.Status).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return overtime.ErrOvertimeExists
		}
		return fmt.Errorf("failed to create overtime request: %w", err)
	}
	return nil
}

func (r *overtimeRepositoryImpl) GetByID(ctx context.Context, id string) (*overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests o WHERE o.id = $1`

	o, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, overtime.ErrOvertimeNotFound
		}
		return nil, fmt.Errorf("failed to get overtime request %s: %w", id, err)
	}
	return o, nil
}

func (r *overtimeRepositoryImpl) UpdateDecision(ctx context.Context, o *overtime.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $1, approver_id = $2, approved_hours = $3, approved_at = $4, decision_remark = $5, updated_at = NOW()
		WHERE id = $6 AND status = $7
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, o.Status, o.ApproverID, o.ApprovedHours, o.ApprovedAt, o.DecisionRemark, o.ID, overtime.StatusPending).
		Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.ErrOvertimeAlreadyProcessed
		}
		return fmt.Errorf("failed to update overtime request: %w", err)
	}
	return nil
}

func (r *overtimeRepositoryImpl) List(ctx context.Context, filter overtime.ListFilter) ([]overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_requests o
		INNER JOIN employees e ON e.id = o.employee_id
		WHERE ($1::uuid IS NULL OR o.employee_id = $1::uuid)
		  AND ($2::uuid IS NULL OR e.store_id = $2::uuid)
		  AND ($3::text IS NULL OR o.status = $3::text)
		  AND ($4::date IS NULL OR o.date >= $4::date)
		  AND ($5::date IS NULL OR o.date <= $5::date)
		ORDER BY o.date DESC, o.created_at DESC
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.StoreID, filter.Status, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var out []overtime.Request
	for rows.Next() {
		o, err := scanOvertime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *overtimeRepositoryImpl) ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM overtime_requests
			WHERE employee_id = $1 AND date = $2 AND status <> $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, overtime.StatusRejected).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active overtime: %w", err)
	}
	return exists, nil
}

func (r *overtimeRepositoryImpl) SumApprovedHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(approved_hours), 0)::float8
		FROM overtime_requests
		WHERE employee_id = $1 AND status = $2 AND date BETWEEN $3 AND $4
	`

	var total float64
	if err := q.QueryRow(ctx, query, employeeID, overtime.StatusApproved, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum approved overtime: %w", err)
	}
	return total, nil
}
