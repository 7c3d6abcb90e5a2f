package overtime

import "context"

type OvertimeService interface {
	Create(ctx context.Context, req CreateOvertimeRequest) (*OvertimeResponse, error)
	Decide(ctx context.Context, id string, req DecisionRequest) (*OvertimeResponse, error)
	List(ctx context.Context, query ListOvertimeQuery) ([]OvertimeResponse, error)
}
