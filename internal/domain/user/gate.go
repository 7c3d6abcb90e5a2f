package user

import "context"

// CheckOptions narrows a permission check to a target employee and, with
// StoreBound, to the caller's store.
type CheckOptions struct {
	TargetEmployeeID string
	StoreBound       bool
}

// Gate decides whether an identity may perform an action.
type Gate interface {
	CheckPermission(ctx context.Context, identity *Identity, action Action, opts CheckOptions) error
}

// StoreResolver supplies the store-membership data the gate needs. Both
// methods return an empty name when there is no store.
type StoreResolver interface {
	ManagedStoreName(ctx context.Context, employeeID string) (string, error)
	EmployeeStoreName(ctx context.Context, employeeID string) (string, error)
}
