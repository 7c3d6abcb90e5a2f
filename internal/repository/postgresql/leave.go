package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

const leaveColumns = `
	l.id, l.employee_id, l.start_date, l.end_date,
	l.start_half_day, l.start_half, l.end_half_day, l.end_half,
	l.reason, l.status, l.stage,
	l.coordinator_approver_id, l.coordinator_approved_at, l.manager_approver_id, l.manager_approved_at,
	l.effective_days, l.reporting_manager_id, l.created_at, l.updated_at`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (*leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate,
		&l.StartHalfDay, &l.StartHalf, &l.EndHalfDay, &l.EndHalf,
		&l.Reason, &l.Status, &l.Stage,
		&l.CoordinatorApproverID, &l.CoordinatorApprovedAt, &l.ManagerApproverID, &l.ManagerApprovedAt,
		&l.EffectiveDays, &l.ReportingManagerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLeaves(rows pgx.Rows) ([]leave.Leave, error) {
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, *l)
	}
	return leaves, rows.Err()
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, l *leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			employee_id, start_date, end_date,
			start_half_day, start_half, end_half_day, end_half,
			reason, status, stage,
			coordinator_approver_id, coordinator_approved_at,
			effective_days, reporting_manager_id
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			$11, $12,
			$13, $14
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.EmployeeID, l.StartDate, l.EndDate,
		l.StartHalfDay, l.StartHalf, l.EndHalfDay, l.EndHalf,
		l.Reason, l.Status, l.Stage,
		l.CoordinatorApproverID, l.CoordinatorApprovedAt,
		l.EffectiveDays, l.ReportingManagerID,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create leave: %w", err)
	}
	return nil
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (*leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leaves l WHERE l.id = $1`

	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, leave.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to get leave %s: %w", id, err)
	}
	return l, nil
}

func (r *leaveRepositoryImpl) UpdateStage(ctx context.Context, l *leave.Leave, from leave.Stage) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, stage = $2,
			coordinator_approver_id = $3, coordinator_approved_at = $4,
			manager_approver_id = $5, manager_approved_at = $6,
			updated_at = NOW()
		WHERE id = $7 AND status = $8 AND stage = $9
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		l.Status, l.Stage,
		l.CoordinatorApproverID, l.CoordinatorApprovedAt,
		l.ManagerApproverID, l.ManagerApprovedAt,
		l.ID, leave.StatusPending, from,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveAlreadyProcessed
		}
		return fmt.Errorf("failed to update leave: %w", err)
	}
	return nil
}

func (r *leaveRepositoryImpl) DeletePending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1 AND status = $2`, id, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrLeaveNotPending
	}
	return nil
}

func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves l
		INNER JOIN employees e ON e.id = l.employee_id
		WHERE ($1::uuid IS NULL OR l.employee_id = $1::uuid)
		  AND ($2::uuid IS NULL OR e.store_id = $2::uuid)
		  AND ($3::text IS NULL OR l.status = $3::text)
		  AND ($4::text IS NULL OR l.stage = $4::text)
		ORDER BY l.created_at DESC
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.StoreID, filter.Status, filter.Stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return collectLeaves(rows)
}

func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, exclude []leave.Status) (bool, error) {
	q := GetQuerier(ctx, r.db)

	excluded := make([]string, 0, len(exclude))
	for _, s := range exclude {
		excluded = append(excluded, string(s))
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1
			  AND start_date <= $3 AND end_date >= $2
			  AND NOT (status = ANY($4::text[]))
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end, excluded).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

func (r *leaveRepositoryImpl) ListApproved(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves l
		WHERE l.employee_id = $1 AND l.status = $2
		  AND l.start_date <= $4 AND l.end_date >= $3
		ORDER BY l.start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.StatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	return collectLeaves(rows)
}

func (r *leaveRepositoryImpl) CreateHistory(ctx context.Context, h *leave.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_histories (leave_id, status, stage, actor_id, remark)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, h.LeaveID, h.Status, h.Stage, h.ActorID, h.Remark).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create leave history: %w", err)
	}
	return nil
}

func (r *leaveRepositoryImpl) ListHistory(ctx context.Context, leaveID string) ([]leave.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_id, status, stage, actor_id, remark, created_at
		FROM leave_histories
		WHERE leave_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, leaveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave history: %w", err)
	}
	defer rows.Close()

	var history []leave.History
	for rows.Next() {
		var h leave.History
		if err := rows.Scan(&h.ID, &h.LeaveID, &h.Status, &h.Stage, &h.ActorID, &h.Remark, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *leaveRepositoryImpl) DeleteHistory(ctx context.Context, leaveID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM leave_histories WHERE leave_id = $1`, leaveID); err != nil {
		return fmt.Errorf("failed to delete leave history: %w", err)
	}
	return nil
}
