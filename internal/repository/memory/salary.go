package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/salary"
)

type SalaryRepository struct {
	db *DB
}

func NewSalaryRepository(db *DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) Create(ctx context.Context, s *salary.Salary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.st.salaries {
		if existing.EmployeeID == s.EmployeeID && existing.Month == s.Month && existing.Year == s.Year {
			return salary.ErrSalaryExists
		}
	}
	s.ID = r.db.nextID("sal")
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.db.st.salaries[s.ID] = *s
	return nil
}

func (r *SalaryRepository) GetByID(ctx context.Context, id string) (*salary.Salary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.st.salaries[id]
	if !ok {
		return nil, salary.ErrSalaryNotFound
	}
	return &s, nil
}

func (r *SalaryRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (*salary.Salary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.st.salaries {
		if s.EmployeeID == employeeID && s.Month == month && s.Year == year {
			return &s, nil
		}
	}
	return nil, salary.ErrSalaryNotFound
}

func (r *SalaryRepository) Update(ctx context.Context, s *salary.Salary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.salaries[s.ID]; !ok {
		return salary.ErrSalaryNotFound
	}
	s.UpdatedAt = time.Now()
	r.db.st.salaries[s.ID] = *s
	return nil
}

func (r *SalaryRepository) List(ctx context.Context, filter salary.ListFilter) ([]salary.Salary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []salary.Salary
	for _, s := range r.db.st.salaries {
		switch {
		case filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID:
		case filter.Month != nil && s.Month != *filter.Month:
		case filter.Year != nil && s.Year != *filter.Year:
		case filter.PublishedOnly && !s.IsPublished:
		case !r.db.employeeInStore(s.EmployeeID, filter.StoreID):
		default:
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b salary.Salary) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}
