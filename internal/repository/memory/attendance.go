package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

type AttendanceRepository struct {
	db *DB

	// FailCreateMissing, when set, is consulted before CreateMissing writes.
	FailCreateMissing func(employeeIDs []string) error

	// AfterRead, when set, runs after GetByEmployeeAndDate has read the row.
	AfterRead func()
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	defer afterRead(r.AfterRead)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.st.attendance[attendanceKey(employeeID, date)]
	if !ok {
		return nil, attendance.ErrAttendanceNotFound
	}
	return &a, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := attendanceKey(a.EmployeeID, a.Date)
	if _, ok := r.db.st.attendance[key]; ok {
		return attendance.ErrAttendanceExists
	}
	a.ID = r.db.nextID("att")
	a.Date = dateutil.Truncate(a.Date)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.db.st.attendance[key] = *a
	return nil
}

func (r *AttendanceRepository) RecordPunchIn(ctx context.Context, a *attendance.Attendance) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := attendanceKey(a.EmployeeID, a.Date)
	stored, ok := r.db.st.attendance[key]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if stored.InTime != nil {
		return attendance.ErrAlreadyPunchedIn
	}
	stored.Status, stored.InTime, stored.IsLateEntry = a.Status, a.InTime, a.IsLateEntry
	stored.UpdatedAt = time.Now()
	r.db.st.attendance[key] = stored
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *AttendanceRepository) RecordPunchOut(ctx context.Context, a *attendance.Attendance) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := attendanceKey(a.EmployeeID, a.Date)
	stored, ok := r.db.st.attendance[key]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if stored.InTime == nil || stored.OutTime != nil {
		return attendance.ErrAlreadyPunchedOut
	}
	stored.OutTime, stored.IsEarlyExit = a.OutTime, a.IsEarlyExit
	stored.UpdatedAt = time.Now()
	r.db.st.attendance[key] = stored
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *AttendanceRepository) ListByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.db.st.attendance {
		if slices.Contains(employeeIDs, a.EmployeeID) && inRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Attendance) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})
	return out, nil
}

func (r *AttendanceRepository) CreateMissing(ctx context.Context, employeeIDs []string, date time.Time, status attendance.Status) (int64, error) {
	if r.FailCreateMissing != nil {
		if err := r.FailCreateMissing(employeeIDs); err != nil {
			return 0, err
		}
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var created int64
	for _, id := range employeeIDs {
		key := attendanceKey(id, date)
		if _, ok := r.db.st.attendance[key]; ok {
			continue
		}
		now := time.Now()
		r.db.st.attendance[key] = attendance.Attendance{
			ID:         r.db.nextID("att"),
			EmployeeID: id,
			Date:       dateutil.Truncate(date),
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		created++
	}
	return created, nil
}

func (r *AttendanceRepository) UpsertStatus(ctx context.Context, employeeID string, dates []time.Time, status attendance.Status) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for _, d := range dates {
		key := attendanceKey(employeeID, d)
		a, ok := r.db.st.attendance[key]
		if !ok {
			a = attendance.Attendance{
				ID:         r.db.nextID("att"),
				EmployeeID: employeeID,
				Date:       dateutil.Truncate(d),
				CreatedAt:  now,
			}
		}
		a.Status = status
		a.UpdatedAt = now
		r.db.st.attendance[key] = a
	}
	return nil
}

func (r *AttendanceRepository) ReplaceStatus(ctx context.Context, employeeID string, from, to time.Time, oldStatus, newStatus attendance.Status) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for key, a := range r.db.st.attendance {
		if a.EmployeeID == employeeID && a.Status == oldStatus && inRange(a.Date, from, to) {
			a.Status = newStatus
			a.UpdatedAt = time.Now()
			r.db.st.attendance[key] = a
			n++
		}
	}
	return n, nil
}
