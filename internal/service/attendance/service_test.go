package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/repository/memory"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	"github.com/retailhr/hr-backend-go/internal/service/calendar"
	"github.com/retailhr/hr-backend-go/internal/service/compoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *memory.DB
	attRepo  *memory.AttendanceRepository
	notifier *memory.Notifier
	svc      *AttendanceServiceImpl
	storeID  string
	empID    string
}

func clock(h, m int) *time.Time {
	t := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
	return &t
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	storeID := db.PutStore(store.Store{
		Name:               "Andheri",
		LateEntryThreshold: 10,
		EarlyExitThreshold: 15,
		ExpectedInTime:     clock(9, 30),
		ExpectedOutTime:    clock(18, 30),
	}, store.Calendar{
		WeeklyOff: "Sunday",
		Holidays:  []store.Holiday{{Date: date(2025, 6, 4), Name: "Festival"}},
	})
	empID := db.PutEmployee(employee.Employee{
		Name:            "Asha",
		StoreID:         &storeID,
		Profile:         user.ProfileEmployee,
		ExpectedInTime:  clock(10, 0),
		ExpectedOutTime: clock(18, 0),
	})

	storeRepo := memory.NewStoreRepository(db)
	employeeRepo := memory.NewEmployeeRepository(db)
	attRepo := memory.NewAttendanceRepository(db)
	resolver := authz.NewStoreResolver(storeRepo)
	gate := authz.NewGate(resolver)
	cal := calendar.NewCalendarService(storeRepo, nil, gate)
	compOff := compoff.NewCompOffService(memory.NewCompOffRepository(db), employeeRepo, cal, gate)
	notifier := &memory.Notifier{}

	svc := NewAttendanceService(db, attRepo, employeeRepo, storeRepo, cal, compOff, gate, resolver, notifier, time.UTC,
		BulkOptions{BatchSize: 2, MaxAttempts: 3, InitialInterval: time.Millisecond}).(*AttendanceServiceImpl)

	return &fixture{db: db, attRepo: attRepo, notifier: notifier, svc: svc, storeID: storeID, empID: empID}
}

func (f *fixture) at(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func (f *fixture) as(employeeID string, role user.Role) context.Context {
	e := f.db.Employee(employeeID)
	return user.WithIdentity(context.Background(), e.Identity("u-"+employeeID, role))
}

// ===== PUNCH TESTS =====

func TestPunchIn_LateEntry(t *testing.T) {
	f := newFixture(t)
	f.at(time.Date(2025, 6, 2, 10, 12, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.True(t, resp.IsLateEntry)
}

func TestPunchIn_WithinThreshold(t *testing.T) {
	f := newFixture(t)
	f.at(time.Date(2025, 6, 2, 10, 10, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{})

	require.NoError(t, err)
	assert.False(t, resp.IsLateEntry)
}

func TestPunchIn_FallsBackToStoreExpectedTime(t *testing.T) {
	f := newFixture(t)
	id := f.db.PutEmployee(employee.Employee{Name: "Ravi", StoreID: &f.storeID})
	f.at(time.Date(2025, 6, 2, 9, 45, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(f.as(id, user.RoleEmployee), attendance.PunchRequest{})

	require.NoError(t, err)
	assert.True(t, resp.IsLateEntry)
}

func TestPunchIn_UsesConfiguredTimezone(t *testing.T) {
	f := newFixture(t)
	ist := time.FixedZone("IST", 5*3600+1800)
	f.svc.loc = ist
	// 04:40 UTC is 10:10 IST on the same date.
	f.at(time.Date(2025, 6, 2, 4, 40, 0, 0, time.UTC))

	resp, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.False(t, resp.IsLateEntry)
	assert.Equal(t, time.UTC, resp.InTime.Location())
}

func TestPunchIn_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.empID, user.RoleEmployee)
	f.at(time.Date(2025, 6, 2, 9, 55, 0, 0, time.UTC))
	first, err := f.svc.PunchIn(ctx, attendance.PunchRequest{})
	require.NoError(t, err)

	f.at(time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC))
	_, err = f.svc.PunchIn(ctx, attendance.PunchRequest{})

	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
	stored, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, date(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, *first.InTime, *stored.InTime)
	assert.False(t, stored.IsLateEntry)
}

func TestPunchIn_UpdatesBulkMarkedRow(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 4), attendance.KindHoliday)
	require.NoError(t, err)

	f.at(time.Date(2025, 6, 4, 9, 58, 0, 0, time.UTC))
	resp, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{})

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.NotNil(t, resp.InTime)
}

func TestPunchIn_ConcurrentOnBulkMarkedRow(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 4), attendance.KindHoliday)
	require.NoError(t, err)
	f.at(time.Date(2025, 6, 4, 9, 58, 0, 0, time.UTC))
	ctx := f.as(f.empID, user.RoleEmployee)

	f.attRepo.AfterRead = memory.Barrier(2)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.PunchIn(ctx, attendance.PunchRequest{})
		}()
	}
	wg.Wait()
	f.attRepo.AfterRead = nil

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], attendance.ErrAlreadyPunchedIn)

	stored, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, date(2025, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
}

func TestPunchIn_ForSomeoneElse(t *testing.T) {
	f := newFixture(t)
	other := f.db.PutEmployee(employee.Employee{Name: "Other", StoreID: &f.storeID})
	f.at(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{EmployeeID: other})
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = f.svc.PunchIn(context.Background(), attendance.PunchRequest{})
	assert.ErrorIs(t, err, user.ErrUnauthorized)
}

func TestPunchOut(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.empID, user.RoleEmployee)

	t.Run("without punch-in", func(t *testing.T) {
		f.at(time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC))
		_, err := f.svc.PunchOut(ctx, attendance.PunchRequest{})
		assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
	})

	t.Run("early exit", func(t *testing.T) {
		f.at(time.Date(2025, 6, 2, 9, 50, 0, 0, time.UTC))
		_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{})
		require.NoError(t, err)

		f.at(time.Date(2025, 6, 2, 17, 40, 0, 0, time.UTC))
		resp, err := f.svc.PunchOut(ctx, attendance.PunchRequest{})
		require.NoError(t, err)
		assert.True(t, resp.IsEarlyExit)
		assert.NotNil(t, resp.OutTime)
	})

	t.Run("twice", func(t *testing.T) {
		f.at(time.Date(2025, 6, 2, 18, 10, 0, 0, time.UTC))
		_, err := f.svc.PunchOut(ctx, attendance.PunchRequest{})
		assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
	})

	t.Run("stale row", func(t *testing.T) {
		stale, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, date(2025, 6, 2))
		require.NoError(t, err)
		late := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
		stale.OutTime = &late

		assert.ErrorIs(t, f.attRepo.RecordPunchOut(context.Background(), stale), attendance.ErrAlreadyPunchedOut)
		stored, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, date(2025, 6, 2))
		require.NoError(t, err)
		assert.NotEqual(t, late, *stored.OutTime)
	})

	assert.Zero(t, f.db.Employee(f.empID).CompOffBalance)
	assert.Empty(t, f.notifier.Events())
}

func TestPunchOut_AccruesCompOffOnWeeklyOff(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.empID, user.RoleEmployee)
	sunday := date(2025, 6, 8)

	f.at(sunday.Add(10 * time.Hour))
	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{})
	require.NoError(t, err)
	f.at(sunday.Add(13 * time.Hour))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchRequest{})
	require.NoError(t, err)

	assert.True(t, resp.IsEarlyExit)
	assert.Equal(t, 0.5, f.db.Employee(f.empID).CompOffBalance)
	assert.Equal(t, []notification.EventType{notification.TypeCompOffEarned}, f.notifier.Types())
}

// ===== LIST TESTS =====

func TestList_SynthesisesAbsentPlaceholders(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.empID, user.RoleEmployee)
	f.at(time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))
	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, attendance.ListAttendanceQuery{StartDate: "2025-06-02", EndDate: "2025-06-04"})

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, attendance.StatusAbsent, list[0].Status)
	assert.True(t, list[0].Synthesized)
	assert.Equal(t, attendance.StatusPresent, list[1].Status)
	assert.False(t, list[1].Synthesized)
	assert.Equal(t, "2025-06-04", list[2].Date)
}

func TestList_Permissions(t *testing.T) {
	f := newFixture(t)
	otherStore := f.db.PutStore(store.Store{Name: "Bandra"}, store.Calendar{WeeklyOff: "Sunday"})
	outsider := f.db.PutEmployee(employee.Employee{Name: "Out", StoreID: &otherStore})
	coord := f.db.PutEmployee(employee.Employee{Name: "Coord", StoreID: &f.storeID, Profile: user.ProfileCoordinator})
	query := func(id string) attendance.ListAttendanceQuery {
		return attendance.ListAttendanceQuery{EmployeeID: id, StartDate: "2025-06-02", EndDate: "2025-06-02"}
	}

	t.Run("employee cannot read a colleague", func(t *testing.T) {
		_, err := f.svc.List(f.as(f.empID, user.RoleEmployee), query(coord))
		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("coordinator reads own store", func(t *testing.T) {
		list, err := f.svc.List(f.as(coord, user.RoleEmployee), query(f.empID))
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("coordinator cannot read another store", func(t *testing.T) {
		_, err := f.svc.List(f.as(coord, user.RoleEmployee), query(outsider))
		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("coordinator listing all is scoped to the store", func(t *testing.T) {
		list, err := f.svc.List(f.as(coord, user.RoleEmployee), query(""))
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("hr lists everyone", func(t *testing.T) {
		list, err := f.svc.List(f.as(f.empID, user.RoleHR), query(""))
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})
}

// ===== BULK MARK TESTS =====

func seedEmployees(f *fixture, storeID string, n int) {
	for i := 0; i < n; i++ {
		f.db.PutEmployee(employee.Employee{Name: fmt.Sprintf("E%d", i), StoreID: &storeID})
	}
}

func TestBulkMark_Idempotent(t *testing.T) {
	f := newFixture(t)
	seedEmployees(f, f.storeID, 4) // five employees with the fixture one: three batches of two
	sunday := date(2025, 6, 8)

	first, err := f.svc.BulkMarkNonWorkingDay(context.Background(), sunday, attendance.KindWeekdayOff)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.RowsCreated)
	assert.Equal(t, 1, first.StoresSucceeded)

	second, err := f.svc.BulkMarkNonWorkingDay(context.Background(), sunday, attendance.KindWeekdayOff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.RowsCreated)
	assert.Equal(t, 1, second.StoresSucceeded)

	rows := f.db.AttendanceRows()
	assert.Len(t, rows, 5)
	for _, r := range rows {
		assert.Equal(t, attendance.StatusWeekdayOff, r.Status)
	}
}

func TestBulkMark_SkipsExistingRowsAndOpenStores(t *testing.T) {
	f := newFixture(t)
	openStore := f.db.PutStore(store.Store{Name: "Open"}, store.Calendar{WeeklyOff: "Monday"})
	seedEmployees(f, openStore, 3)
	holiday := date(2025, 6, 4)

	f.at(holiday.Add(10 * time.Hour))
	_, err := f.svc.PunchIn(f.as(f.empID, user.RoleEmployee), attendance.PunchRequest{})
	require.NoError(t, err)

	result, err := f.svc.BulkMarkNonWorkingDay(context.Background(), holiday, attendance.KindAuto)
	require.NoError(t, err)

	assert.Equal(t, 2, result.StoresScanned)
	assert.Equal(t, 1, result.StoresMatched)
	assert.Equal(t, int64(0), result.RowsCreated)

	stored, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, holiday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
}

func TestBulkMark_AutoKind(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 4), attendance.KindAuto)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.RowsCreated)

	stored, err := f.attRepo.GetByEmployeeAndDate(context.Background(), f.empID, date(2025, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, stored.Status)
}

func TestBulkMark_RetriesTransientFailures(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.attRepo.FailCreateMissing = func(ids []string) error {
		calls++
		if calls <= 2 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	}

	result, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 8), attendance.KindWeekdayOff)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, result.StoresSucceeded)
	assert.Equal(t, int64(1), result.RowsCreated)
}

func TestBulkMark_PartialFailure(t *testing.T) {
	f := newFixture(t)
	badStore := f.db.PutStore(store.Store{Name: "Flaky"}, store.Calendar{WeeklyOff: "Sunday"})
	badEmp := f.db.PutEmployee(employee.Employee{Name: "Flaky", StoreID: &badStore})
	calls := 0
	f.attRepo.FailCreateMissing = func(ids []string) error {
		for _, id := range ids {
			if id == badEmp {
				calls++
				return &pgconn.PgError{Code: "08006"}
			}
		}
		return nil
	}

	result, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 8), attendance.KindWeekdayOff)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, result.StoresSucceeded)
	assert.Equal(t, 1, result.StoresFailed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, badStore, result.Failures[0].StoreID)
	assert.Equal(t, 3, result.Failures[0].Attempts)
	assert.Equal(t, int64(1), result.RowsCreated)
}

func TestBulkMark_PermanentErrorIsNotRetried(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.attRepo.FailCreateMissing = func(ids []string) error {
		calls++
		return errors.New("constraint violated")
	}

	result, err := f.svc.BulkMarkNonWorkingDay(context.Background(), date(2025, 6, 8), attendance.KindWeekdayOff)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.StoresFailed)
	assert.Equal(t, "constraint violated", result.Failures[0].Error)
}

func TestMarkNonWorkingDay_RequiresPermission(t *testing.T) {
	f := newFixture(t)
	req := attendance.MarkNonWorkingDayRequest{Date: "2025-06-08", Kind: "weekday_off"}

	_, err := f.svc.MarkNonWorkingDay(f.as(f.empID, user.RoleEmployee), req)
	assert.ErrorIs(t, err, user.ErrForbidden)

	result, err := f.svc.MarkNonWorkingDay(f.as(f.empID, user.RoleHR), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsCreated)
}
