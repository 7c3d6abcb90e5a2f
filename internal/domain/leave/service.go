package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequest) (*LeaveResponse, error)
	Decide(ctx context.Context, id string, req DecisionRequest) (*LeaveResponse, error)
	Withdraw(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*LeaveResponse, error)
	List(ctx context.Context, query ListLeaveQuery) ([]LeaveResponse, error)
}
