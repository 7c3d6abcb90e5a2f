// Package memory keeps every repository in process memory. Service tests run
// against it; WithinTransaction restores the previous state when fn fails.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

type state struct {
	employees    map[string]employee.Employee
	stores       map[string]store.Store
	calendars    map[string]store.Calendar // by store id
	attendance   map[string]attendance.Attendance
	leaves       map[string]leave.Leave
	leaveHistory []leave.History
	overtime     map[string]overtime.Request
	salaries     map[string]salary.Salary
	expenses     map[string]expense.Expense
	compOff      []compoff.History
}

func (s state) clone() state {
	return state{
		employees:    maps.Clone(s.employees),
		stores:       maps.Clone(s.stores),
		calendars:    maps.Clone(s.calendars),
		attendance:   maps.Clone(s.attendance),
		leaves:       maps.Clone(s.leaves),
		leaveHistory: slices.Clone(s.leaveHistory),
		overtime:     maps.Clone(s.overtime),
		salaries:     maps.Clone(s.salaries),
		expenses:     maps.Clone(s.expenses),
		compOff:      slices.Clone(s.compOff),
	}
}

type DB struct {
	mu  sync.Mutex
	st  state
	seq int

	// txMu serializes transactions so a rollback never discards another
	// transaction's committed writes.
	txMu sync.Mutex
}

type txKey struct{}

func NewDB() *DB {
	return &DB{st: state{
		employees:  map[string]employee.Employee{},
		stores:     map[string]store.Store{},
		calendars:  map[string]store.Calendar{},
		attendance: map[string]attendance.Attendance{},
		leaves:     map[string]leave.Leave{},
		overtime:   map[string]overtime.Request{},
		salaries:   map[string]salary.Salary{},
		expenses:   map[string]expense.Expense{},
	}}
}

// WithinTransaction implements database.Transactor. A nested call joins the
// outer transaction.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	db.txMu.Lock()
	defer db.txMu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)

	db.mu.Lock()
	saved := db.st.clone()
	db.mu.Unlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.st = saved
		db.mu.Unlock()
		return err
	}
	return nil
}

// Barrier returns an AfterRead hook that holds its first parties callers
// until all of them have arrived. Later calls pass straight through.
func Barrier(parties int) func() {
	var (
		mu      sync.Mutex
		arrived int
	)
	release := make(chan struct{})
	return func() {
		mu.Lock()
		arrived++
		n := arrived
		if n == parties {
			close(release)
		}
		mu.Unlock()
		if n <= parties {
			<-release
		}
	}
}

func afterRead(hook func()) {
	if hook != nil {
		hook()
	}
}

func (db *DB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

// PutEmployee seeds an employee, assigning an id when empty.
func (db *DB) PutEmployee(e employee.Employee) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e.ID == "" {
		e.ID = db.nextID("emp")
	}
	db.st.employees[e.ID] = e
	return e.ID
}

// PutStore seeds a store with its calendar.
func (db *DB) PutStore(s store.Store, cal store.Calendar) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s.ID == "" {
		s.ID = db.nextID("store")
	}
	if cal.ID == "" {
		cal.ID = db.nextID("cal")
	}
	cal.StoreID = s.ID
	db.st.stores[s.ID] = s
	db.st.calendars[s.ID] = cal
	return s.ID
}

// Employee returns a copy of the stored employee.
func (db *DB) Employee(id string) employee.Employee {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.st.employees[id]
}

// AttendanceRows returns every stored attendance row.
func (db *DB) AttendanceRows() []attendance.Attendance {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Collect(maps.Values(db.st.attendance))
}

func (db *DB) employeeInStore(employeeID string, storeID *string) bool {
	if storeID == nil {
		return true
	}
	e, ok := db.st.employees[employeeID]
	return ok && e.InStore(*storeID)
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + dateutil.Key(date)
}

// inRange reports whether date lies in the inclusive [from, to] date range.
func inRange(date, from, to time.Time) bool {
	d := dateutil.Key(date)
	return d >= dateutil.Key(from) && d <= dateutil.Key(to)
}
