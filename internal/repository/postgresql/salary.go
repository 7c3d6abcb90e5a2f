package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
)

const salaryColumns = `
	s.id, s.employee_id, s.month, s.year,
	s.basic_salary, s.per_hour_salary, s.overtime_rate, s.bonus,
	s.deduction_hours, s.deduction_days, s.overtime_hours,
	s.per_day_salary, s.absent_days, s.absent_hours, s.total_overtime_hours,
	s.total_deductions, s.overtime_payable, s.expenses, s.salary_gt, s.net_salary,
	s.is_published, s.created_by, s.created_at, s.updated_at`

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

func scanSalary(row pgx.Row) (*salary.Salary, error) {
	var s salary.Salary
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Month, &s.Year,
		&s.BasicSalary, &s.PerHourSalary, &s.OvertimeRate, &s.Bonus,
		&s.DeductionHours, &s.DeductionDays, &s.OvertimeHours,
		&s.PerDaySalary, &s.AbsentDays, &s.AbsentHours, &s.TotalOvertimeHours,
		&s.TotalDeductions, &s.OvertimePayable, &s.Expenses, &s.SalaryGT, &s.NetSalary,
		&s.IsPublished, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *salaryRepositoryImpl) Create(ctx context.Context, s *salary.Salary) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salaries (
			employee_id, month, year,
			basic_salary, per_hour_salary, overtime_rate, bonus,
			deduction_hours, deduction_days, overtime_hours,
			per_day_salary, absent_days, absent_hours, total_overtime_hours,
			total_deductions, overtime_payable, expenses, salary_gt, net_salary,
			is_published, created_by
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID, s.Month, s.Year,
		s.BasicSalary, s.PerHourSalary, s.OvertimeRate, s.Bonus,
		s.DeductionHours, s.DeductionDays, s.OvertimeHours,
		s.PerDaySalary, s.AbsentDays, s.AbsentHours, s.TotalOvertimeHours,
		s.TotalDeductions, s.OvertimePayable, s.Expenses, s.SalaryGT, s.NetSalary,
		s.IsPublished, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return salary.ErrSalaryExists
		}
		return fmt.Errorf("failed to create salary: %w", err)
	}
	return nil
}

func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (*salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` FROM salaries s WHERE s.id = $1`

	s, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, salary.ErrSalaryNotFound
		}
		return nil, fmt.Errorf("failed to get salary %s: %w", id, err)
	}
	return s, nil
}

// GetByPeriod locks the row so a recompute inside a transaction is not
// interleaved with another one for the same period.
func (r *salaryRepositoryImpl) GetByPeriod(ctx context.Context, employeeID string, month, year int) (*salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salaries s
		WHERE s.employee_id = $1 AND s.month = $2 AND s.year = $3
		FOR UPDATE
	`

	s, err := scanSalary(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, salary.ErrSalaryNotFound
		}
		return nil, fmt.Errorf("failed to get salary for period: %w", err)
	}
	return s, nil
}

func (r *salaryRepositoryImpl) Update(ctx context.Context, s *salary.Salary) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salaries
		SET basic_salary = $1, per_hour_salary = $2, overtime_rate = $3, bonus = $4,
			deduction_hours = $5, deduction_days = $6, overtime_hours = $7,
			per_day_salary = $8, absent_days = $9, absent_hours = $10, total_overtime_hours = $11,
			total_deductions = $12, overtime_payable = $13, expenses = $14, salary_gt = $15, net_salary = $16,
			is_published = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		s.BasicSalary, s.PerHourSalary, s.OvertimeRate, s.Bonus,
		s.DeductionHours, s.DeductionDays, s.OvertimeHours,
		s.PerDaySalary, s.AbsentDays, s.AbsentHours, s.TotalOvertimeHours,
		s.TotalDeductions, s.OvertimePayable, s.Expenses, s.SalaryGT, s.NetSalary,
		s.IsPublished, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.ErrSalaryNotFound
		}
		return fmt.Errorf("failed to update salary: %w", err)
	}
	return nil
}

func (r *salaryRepositoryImpl) List(ctx context.Context, filter salary.ListFilter) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salaries s
		INNER JOIN employees e ON e.id = s.employee_id
		WHERE ($1::uuid IS NULL OR s.employee_id = $1::uuid)
		  AND ($2::uuid IS NULL OR e.store_id = $2::uuid)
		  AND ($3::int IS NULL OR s.month = $3::int)
		  AND ($4::int IS NULL OR s.year = $4::int)
		  AND (NOT $5 OR s.is_published)
		ORDER BY s.year DESC, s.month DESC, e.name
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.StoreID, filter.Month, filter.Year, filter.PublishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	var out []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
