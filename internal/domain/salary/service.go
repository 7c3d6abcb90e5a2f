package salary

import "context"

type SalaryService interface {
	Create(ctx context.Context, req CreateSalaryRequest) (*SalaryResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRequest) (*SalaryResponse, error)
	Recompute(ctx context.Context, id string) (*SalaryResponse, error)
	Get(ctx context.Context, id string) (*SalaryResponse, error)
	List(ctx context.Context, query ListSalaryQuery) ([]SalaryResponse, error)
}

// Recomputer refreshes the salary of a period after an upstream change. It
// joins the caller's transaction and is a no-op when the period has no salary.
type Recomputer interface {
	RecomputePeriod(ctx context.Context, employeeID string, month, year int) error
}
