package authz

import (
	"context"
	"errors"

	"github.com/retailhr/hr-backend-go/internal/domain/store"
)

// StoreResolver answers store-membership questions from the store repository.
type StoreResolver struct {
	stores store.StoreRepository
}

func NewStoreResolver(stores store.StoreRepository) *StoreResolver {
	return &StoreResolver{stores: stores}
}

func (r *StoreResolver) ManagedStoreName(ctx context.Context, employeeID string) (string, error) {
	s, err := r.managed(ctx, employeeID)
	if err != nil || s == nil {
		return "", err
	}
	return s.Name, nil
}

func (r *StoreResolver) ManagedStoreID(ctx context.Context, employeeID string) (string, error) {
	s, err := r.managed(ctx, employeeID)
	if err != nil || s == nil {
		return "", err
	}
	return s.ID, nil
}

func (r *StoreResolver) EmployeeStoreName(ctx context.Context, employeeID string) (string, error) {
	s, err := r.stores.EmployeeStore(ctx, employeeID)
	if errors.Is(err, store.ErrStoreNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

func (r *StoreResolver) managed(ctx context.Context, employeeID string) (*store.Store, error) {
	s, err := r.stores.ManagedStore(ctx, employeeID)
	if errors.Is(err, store.ErrStoreNotFound) {
		return nil, nil
	}
	return s, err
}
