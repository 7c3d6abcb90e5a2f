package compoff

import (
	"context"
	"testing"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/repository/memory"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	"github.com/retailhr/hr-backend-go/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *memory.DB
	svc     compoff.CompOffService
	storeID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	storeID := db.PutStore(store.Store{Name: "Andheri"}, store.Calendar{
		WeeklyOff: "Sunday",
		Holidays:  []store.Holiday{{Date: date(2025, 6, 4), Name: "Festival"}},
	})
	storeRepo := memory.NewStoreRepository(db)
	gate := authz.NewGate(authz.NewStoreResolver(storeRepo))
	cal := calendar.NewCalendarService(storeRepo, nil, gate)
	svc := NewCompOffService(memory.NewCompOffRepository(db), memory.NewEmployeeRepository(db), cal, gate)
	return &fixture{db: db, svc: svc, storeID: storeID}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, m int) *time.Time {
	t := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
	return &t
}

func worked(day time.Time, hours float64) *attendance.Attendance {
	in := day.Add(9 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return &attendance.Attendance{Date: day, Status: attendance.StatusPresent, InTime: &in, OutTime: &out}
}

func (f *fixture) employee(t *testing.T) *employee.Employee {
	t.Helper()
	id := f.db.PutEmployee(employee.Employee{
		Name:            "Asha",
		StoreID:         &f.storeID,
		ExpectedInTime:  clock(10, 0),
		ExpectedOutTime: clock(18, 0),
	})
	e := f.db.Employee(id)
	return &e
}

// ===== ACCRUE TESTS =====

func TestAccrue(t *testing.T) {
	tests := []struct {
		name   string
		day    time.Time
		hours  float64
		credit float64
	}{
		{"working day earns nothing", date(2025, 6, 3), 8, 0},
		{"full shift on holiday", date(2025, 6, 4), 8, compoff.FullDay},
		{"exactly half the shift on holiday", date(2025, 6, 4), 4, compoff.FullDay},
		{"short shift on weekly off", date(2025, 6, 8), 3.5, compoff.HalfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			emp := f.employee(t)

			h, err := f.svc.Accrue(context.Background(), emp, worked(tt.day, tt.hours))
			require.NoError(t, err)

			if tt.credit == 0 {
				assert.Nil(t, h)
				assert.Zero(t, f.db.Employee(emp.ID).CompOffBalance)
				return
			}
			require.NotNil(t, h)
			assert.Equal(t, tt.credit, h.Amount)
			assert.Equal(t, tt.credit, f.db.Employee(emp.ID).CompOffBalance)
		})
	}
}

func TestAccrue_DefaultShiftIsNineHours(t *testing.T) {
	f := newFixture(t)
	id := f.db.PutEmployee(employee.Employee{Name: "Ravi", StoreID: &f.storeID})
	emp := f.db.Employee(id)

	h, err := f.svc.Accrue(context.Background(), &emp, worked(date(2025, 6, 8), 4.4))
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, compoff.HalfDay, h.Amount)
}

func TestAccrue_NoStore(t *testing.T) {
	f := newFixture(t)
	emp := &employee.Employee{ID: "nobody"}

	h, err := f.svc.Accrue(context.Background(), emp, worked(date(2025, 6, 8), 8))
	require.NoError(t, err)
	assert.Nil(t, h)
}

// ===== HISTORY TESTS =====

func TestListHistory(t *testing.T) {
	f := newFixture(t)
	emp := f.employee(t)
	_, err := f.svc.Accrue(context.Background(), emp, worked(date(2025, 6, 8), 8))
	require.NoError(t, err)

	t.Run("own history needs no permission", func(t *testing.T) {
		ctx := user.WithIdentity(context.Background(), emp.Identity("u1", user.RoleEmployee))
		list, err := f.svc.ListHistory(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2025-06-08", *list[0].AttendanceDate)
	})

	t.Run("colleague is forbidden", func(t *testing.T) {
		otherID := f.db.PutEmployee(employee.Employee{Name: "Other", StoreID: &f.storeID})
		other := f.db.Employee(otherID)
		ctx := user.WithIdentity(context.Background(), other.Identity("u2", user.RoleEmployee))
		_, err := f.svc.ListHistory(ctx, emp.ID)
		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("hr sees anyone", func(t *testing.T) {
		ctx := user.WithIdentity(context.Background(), &user.Identity{EmployeeID: "hr-1", Role: user.RoleHR, Profile: user.ProfileEmployee})
		list, err := f.svc.ListHistory(ctx, emp.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.ListHistory(context.Background(), emp.ID)
		assert.ErrorIs(t, err, user.ErrUnauthorized)
	})
}
