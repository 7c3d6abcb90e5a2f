package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
)

type OvertimeRepository struct {
	db *DB

	// AfterRead, when set, runs after GetByID has read the request.
	AfterRead func()
}

func NewOvertimeRepository(db *DB) *OvertimeRepository {
	return &OvertimeRepository{db: db}
}

func (r *OvertimeRepository) Create(ctx context.Context, req *overtime.Request) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req.ID = r.db.nextID("ot")
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.db.st.overtime[req.ID] = *req
	return nil
}

func (r *OvertimeRepository) GetByID(ctx context.Context, id string) (*overtime.Request, error) {
	defer afterRead(r.AfterRead)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.st.overtime[id]
	if !ok {
		return nil, overtime.ErrOvertimeNotFound
	}
	return &req, nil
}

func (r *OvertimeRepository) UpdateDecision(ctx context.Context, req *overtime.Request) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.st.overtime[req.ID]
	if !ok || stored.Status != overtime.StatusPending {
		return overtime.ErrOvertimeAlreadyProcessed
	}
	req.UpdatedAt = time.Now()
	r.db.st.overtime[req.ID] = *req
	return nil
}

func (r *OvertimeRepository) List(ctx context.Context, filter overtime.ListFilter) ([]overtime.Request, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []overtime.Request
	for _, req := range r.db.st.overtime {
		switch {
		case filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID:
		case filter.Status != nil && req.Status != *filter.Status:
		case filter.From != nil && req.Date.Before(*filter.From):
		case filter.To != nil && req.Date.After(*filter.To):
		case !r.db.employeeInStore(req.EmployeeID, filter.StoreID):
		default:
			out = append(out, req)
		}
	}
	slices.SortFunc(out, func(a, b overtime.Request) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *OvertimeRepository) ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, req := range r.db.st.overtime {
		if req.EmployeeID == employeeID && req.Date.Equal(date) && req.Status != overtime.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *OvertimeRepository) SumApprovedHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var total float64
	for _, req := range r.db.st.overtime {
		if req.EmployeeID == employeeID && req.Status == overtime.StatusApproved && req.ApprovedHours != nil && inRange(req.Date, from, to) {
			total += *req.ApprovedHours
		}
	}
	return total, nil
}
