package compoff

import "context"

type CompOffRepository interface {
	CreateHistory(ctx context.Context, h *History) error
	ListHistory(ctx context.Context, employeeID string) ([]History, error)
}
