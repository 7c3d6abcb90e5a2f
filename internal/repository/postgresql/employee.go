package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// Time-of-day columns are lifted onto a fixed date so they scan into time.Time.
const employeeColumns = `
	e.id, e.user_id, e.name, e.email, e.store_id, e.profile, e.reporting_manager_id,
	(DATE '2000-01-01' + e.expected_in_time), (DATE '2000-01-01' + e.expected_out_time),
	e.leave_days, e.comp_off_balance, e.basic_salary, e.created_at, e.updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	var basic decimal.NullDecimal
	err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Email, &e.StoreID, &e.Profile, &e.ReportingManagerID,
		&e.ExpectedInTime, &e.ExpectedOutTime,
		&e.LeaveDays, &e.CompOffBalance, &basic, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if basic.Valid {
		e.BasicSalary = &basic.Decimal
	}
	return &e, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1 FOR UPDATE OF e`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to lock employee %s: %w", id, err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE ($1::uuid IS NULL OR e.store_id = $1::uuid)
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query, filter.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return collectEmployees(rows)
}

func (r *employeeRepositoryImpl) ListByStore(ctx context.Context, storeID string, afterID string, limit int) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.store_id = $1
		  AND ($2::uuid IS NULL OR e.id > $2::uuid)
		ORDER BY e.id
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, storeID, nullable(afterID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to page employees of store %s: %w", storeID, err)
	}
	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) DecrementLeaveDays(ctx context.Context, id string, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET leave_days = leave_days - $1, updated_at = NOW()
		WHERE id = $2 AND leave_days >= $1
	`

	tag, err := q.Exec(ctx, query, days, id)
	if err != nil {
		return fmt.Errorf("failed to decrement leave days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return employee.ErrInsufficientLeaveBalance
	}
	return nil
}

func (r *employeeRepositoryImpl) AddCompOff(ctx context.Context, id string, amount float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET comp_off_balance = comp_off_balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to add comp-off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
