package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/retailhr/hr-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	db *DB

	// AfterRead, when set, runs after GetByID has read the employee.
	AfterRead func()
}

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	defer afterRead(r.AfterRead)
	return r.get(id)
}

// GetForUpdate relies on DB.WithinTransaction serializing transactions.
func (r *EmployeeRepository) GetForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	return r.get(id)
}

func (r *EmployeeRepository) get(id string) (*employee.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.st.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.db.st.employees {
		if filter.StoreID != nil && !e.InStore(*filter.StoreID) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b employee.Employee) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *EmployeeRepository) ListByStore(ctx context.Context, storeID string, afterID string, limit int) ([]employee.Employee, error) {
	all, err := r.List(ctx, employee.ListFilter{StoreID: &storeID})
	if err != nil {
		return nil, err
	}
	var out []employee.Employee
	for _, e := range all {
		if e.ID > afterID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepository) DecrementLeaveDays(ctx context.Context, id string, days float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.st.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if e.LeaveDays < days {
		return employee.ErrInsufficientLeaveBalance
	}
	e.LeaveDays -= days
	r.db.st.employees[id] = e
	return nil
}

func (r *EmployeeRepository) AddCompOff(ctx context.Context, id string, amount float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.st.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.CompOffBalance += amount
	r.db.st.employees[id] = e
	return nil
}
