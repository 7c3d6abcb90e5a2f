package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type expenseRepositoryImpl struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepositoryImpl{db: db}
}

func (r *expenseRepositoryImpl) Create(ctx context.Context, e *expense.Expense) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (
			employee_id, date, initial_reading, final_reading, rate,
			distance, fuel_total, miscellaneous_expense, amount, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		e.EmployeeID, e.Date, e.InitialReading, e.FinalReading, e.Rate,
		e.Distance, e.FuelTotal, e.MiscellaneousExpense, e.Amount, e.Remarks,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return expense.ErrExpenseExists
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *expenseRepositoryImpl) List(ctx context.Context, filter expense.ListFilter) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT x.id, x.employee_id, x.date, x.initial_reading, x.final_reading, x.rate,
			   x.distance, x.fuel_total, x.miscellaneous_expense, x.amount, x.remarks, x.created_at
		FROM expenses x
		INNER JOIN employees e ON e.id = x.employee_id
		WHERE ($1::uuid IS NULL OR x.employee_id = $1::uuid)
		  AND ($2::uuid IS NULL OR e.store_id = $2::uuid)
		  AND ($3::date IS NULL OR x.date >= $3::date)
		  AND ($4::date IS NULL OR x.date <= $4::date)
		ORDER BY x.date DESC
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.StoreID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var out []expense.Expense
	for rows.Next() {
		var x expense.Expense
		err := rows.Scan(
			&x.ID, &x.EmployeeID, &x.Date, &x.InitialReading, &x.FinalReading, &x.Rate,
			&x.Distance, &x.FuelTotal, &x.MiscellaneousExpense, &x.Amount, &x.Remarks, &x.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *expenseRepositoryImpl) SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount + miscellaneous_expense), 0)
		FROM expenses
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}
