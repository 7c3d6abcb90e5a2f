package expense

import "context"

type ExpenseService interface {
	Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error)
	List(ctx context.Context, query ListExpenseQuery) ([]ExpenseResponse, error)
}
