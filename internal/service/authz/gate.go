package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailhr/hr-backend-go/internal/domain/user"
)

type GateImpl struct {
	stores user.StoreResolver
}

func NewGate(stores user.StoreResolver) user.Gate {
	return &GateImpl{stores: stores}
}

// CheckPermission implements user.Gate.
func (g *GateImpl) CheckPermission(ctx context.Context, identity *user.Identity, action user.Action, opts user.CheckOptions) error {
	if identity == nil || identity.EmployeeID == "" {
		return user.ErrUnauthorized
	}

	rule, ok := user.Permissions[action]
	if !ok || !rule.Allows(identity.Role, identity.Profile) {
		return fmt.Errorf("%w: %s", user.ErrForbidden, action)
	}

	if rule.SelfService && opts.TargetEmployeeID != "" && opts.TargetEmployeeID != identity.EmployeeID {
		return fmt.Errorf("%w: %s is limited to your own records", user.ErrForbidden, action)
	}

	if !opts.StoreBound || !rule.IsStoreBound(identity.Profile) {
		return nil
	}

	own, err := g.stores.ManagedStoreName(ctx, identity.EmployeeID)
	if err != nil {
		return fmt.Errorf("resolve store: %w", err)
	}
	if own == "" {
		return fmt.Errorf("%w: %w", user.ErrForbidden, user.ErrStoreNotResolved)
	}
	if opts.TargetEmployeeID == "" {
		return nil
	}

	target, err := g.stores.EmployeeStoreName(ctx, opts.TargetEmployeeID)
	if err != nil {
		return fmt.Errorf("resolve target store: %w", err)
	}
	if !strings.EqualFold(target, own) {
		return fmt.Errorf("%w: employee belongs to another store", user.ErrForbidden)
	}
	return nil
}

// ManagedStoreID returns the store a store-bound caller is limited to for
// action, or nil when the caller is not store-bound for it. Listing
// operations use it to scope their queries.
func ManagedStoreID(ctx context.Context, resolver StoreIDResolver, identity *user.Identity, action user.Action) (*string, error) {
	if identity == nil || !user.Permissions[action].IsStoreBound(identity.Profile) {
		return nil, nil
	}
	id, err := resolver.ManagedStoreID(ctx, identity.EmployeeID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %w", user.ErrForbidden, user.ErrStoreNotResolved)
	}
	return &id, nil
}

// StoreIDResolver resolves the id of the store an employee acts for.
type StoreIDResolver interface {
	ManagedStoreID(ctx context.Context, employeeID string) (string, error)
}
