package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ListFilter struct {
	EmployeeID *string
	StoreID    *string
	From       *time.Time
	To         *time.Time
}

type ExpenseRepository interface {
	// Create fails with ErrExpenseExists on a second expense for the same date.
	Create(ctx context.Context, e *Expense) error
	List(ctx context.Context, filter ListFilter) ([]Expense, error)

	// SumForPeriod sums amount plus miscellaneous expense over [from, to].
	SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}
