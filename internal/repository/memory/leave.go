package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/leave"
)

type LeaveRepository struct {
	db *DB

	// AfterRead, when set, runs after GetByID has read the leave.
	AfterRead func()
}

func NewLeaveRepository(db *DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l.ID = r.db.nextID("leave")
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.db.st.leaves[l.ID] = *l
	return nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leave.Leave, error) {
	defer afterRead(r.AfterRead)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.st.leaves[id]
	if !ok {
		return nil, leave.ErrLeaveNotFound
	}
	return &l, nil
}

func (r *LeaveRepository) UpdateStage(ctx context.Context, l *leave.Leave, from leave.Stage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.st.leaves[l.ID]
	if !ok || stored.Status != leave.StatusPending || stored.Stage != from {
		return leave.ErrLeaveAlreadyProcessed
	}
	l.UpdatedAt = time.Now()
	r.db.st.leaves[l.ID] = *l
	return nil
}

func (r *LeaveRepository) DeletePending(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.st.leaves[id]
	if !ok {
		return leave.ErrLeaveNotFound
	}
	if l.Status != leave.StatusPending {
		return leave.ErrLeaveNotPending
	}
	delete(r.db.st.leaves, id)
	return nil
}

func (r *LeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []leave.Leave
	for _, l := range r.db.st.leaves {
		switch {
		case filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID:
		case filter.Status != nil && l.Status != *filter.Status:
		case filter.Stage != nil && l.Stage != *filter.Stage:
		case !r.db.employeeInStore(l.EmployeeID, filter.StoreID):
		default:
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b leave.Leave) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *LeaveRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, exclude []leave.Status) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.st.leaves {
		if l.EmployeeID != employeeID || slices.Contains(exclude, l.Status) {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveRepository) ListApproved(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Leave, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []leave.Leave
	for _, l := range r.db.st.leaves {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved && !l.StartDate.After(to) && !l.EndDate.Before(from) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LeaveRepository) CreateHistory(ctx context.Context, h *leave.History) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	h.ID = r.db.nextID("lh")
	h.CreatedAt = time.Now()
	r.db.st.leaveHistory = append(r.db.st.leaveHistory, *h)
	return nil
}

func (r *LeaveRepository) ListHistory(ctx context.Context, leaveID string) ([]leave.History, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []leave.History
	for _, h := range r.db.st.leaveHistory {
		if h.LeaveID == leaveID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *LeaveRepository) DeleteHistory(ctx context.Context, leaveID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.st.leaveHistory = slices.DeleteFunc(slices.Clone(r.db.st.leaveHistory), func(h leave.History) bool {
		return h.LeaveID == leaveID
	})
	return nil
}
