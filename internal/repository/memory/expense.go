package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/shopspring/decimal"
)

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.st.expenses {
		if existing.EmployeeID == e.EmployeeID && existing.Date.Equal(e.Date) {
			return expense.ErrExpenseExists
		}
	}
	e.ID = r.db.nextID("exp")
	e.CreatedAt = time.Now()
	r.db.st.expenses[e.ID] = *e
	return nil
}

func (r *ExpenseRepository) List(ctx context.Context, filter expense.ListFilter) ([]expense.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []expense.Expense
	for _, e := range r.db.st.expenses {
		switch {
		case filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID:
		case filter.From != nil && e.Date.Before(*filter.From):
		case filter.To != nil && e.Date.After(*filter.To):
		case !r.db.employeeInStore(e.EmployeeID, filter.StoreID):
		default:
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b expense.Expense) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *ExpenseRepository) SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.db.st.expenses {
		if e.EmployeeID == employeeID && inRange(e.Date, from, to) {
			total = total.Add(e.Total())
		}
	}
	return total, nil
}
