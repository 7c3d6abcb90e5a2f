package postgresql

import (
	"context"
	"fmt"

	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

type compOffRepositoryImpl struct {
	db *database.DB
}

func NewCompOffRepository(db *database.DB) compoff.CompOffRepository {
	return &compOffRepositoryImpl{db: db}
}

func (r *compOffRepositoryImpl) CreateHistory(ctx context.Context, h *compoff.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO comp_off_histories (employee_id, amount, action, attendance_date, remark)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, h.EmployeeID, h.Amount, h.Action, h.AttendanceDate, h.Remark).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comp-off history: %w", err)
	}
	return nil
}

func (r *compOffRepositoryImpl) ListHistory(ctx context.Context, employeeID string) ([]compoff.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, action, attendance_date, remark, created_at
		FROM comp_off_histories
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comp-off history: %w", err)
	}
	defer rows.Close()

	var out []compoff.History
	for rows.Next() {
		var h compoff.History
		if err := rows.Scan(&h.ID, &h.EmployeeID, &h.Amount, &h.Action, &h.AttendanceDate, &h.Remark, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
