package expense

import (
	"context"
	"testing"

	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/retailhr/hr-backend-go/internal/repository/memory"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	salaryservice "github.com/retailhr/hr-backend-go/internal/service/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *memory.DB
	salaries *salaryservice.SalaryServiceImpl
	svc      expense.ExpenseService

	director string
	emp      string
	other    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	f := &fixture{db: db}

	storeID := db.PutStore(store.Store{Name: "Andheri"}, store.Calendar{})
	otherStore := db.PutStore(store.Store{Name: "Bandra"}, store.Calendar{})
	f.director = db.PutEmployee(employee.Employee{Name: "Dev", StoreID: &storeID, Profile: user.ProfileStoreDirector})
	f.emp = db.PutEmployee(employee.Employee{Name: "Asha", StoreID: &storeID, Profile: user.ProfileEmployee})
	f.other = db.PutEmployee(employee.Employee{Name: "Ravi", StoreID: &otherStore, Profile: user.ProfileEmployee})

	resolver := authz.NewStoreResolver(memory.NewStoreRepository(db))
	gate := authz.NewGate(resolver)
	employeeRepo := memory.NewEmployeeRepository(db)
	expenseRepo := memory.NewExpenseRepository(db)
	f.salaries = salaryservice.NewSalaryService(db, memory.NewSalaryRepository(db), employeeRepo,
		memory.NewAttendanceRepository(db), memory.NewLeaveRepository(db), memory.NewOvertimeRepository(db),
		expenseRepo, gate, resolver)
	f.svc = NewExpenseService(db, expenseRepo, employeeRepo, f.salaries, gate, resolver)
	return f
}

func (f *fixture) as(employeeID string, role user.Role) context.Context {
	e := f.db.Employee(employeeID)
	return user.WithIdentity(context.Background(), e.Identity("u-"+employeeID, role))
}

func fuel(date string) expense.CreateExpenseRequest {
	misc := decimal.NewFromInt(50)
	return expense.CreateExpenseRequest{
		Date:                 date,
		InitialReading:       1200,
		FinalReading:         1242.5,
		Rate:                 decimal.NewFromInt(4),
		MiscellaneousExpense: &misc,
	}
}

// ===== CREATE TESTS =====

func TestCreate_ComputesTotals(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.as(f.emp, user.RoleEmployee), fuel("2025-06-10"))

	require.NoError(t, err)
	assert.Equal(t, f.emp, resp.EmployeeID)
	assert.Equal(t, 42.5, resp.Distance)
	assert.True(t, resp.FuelTotal.Equal(decimal.NewFromInt(170)), resp.FuelTotal.String())
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(170)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(220)))
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.emp, user.RoleEmployee)
	_, err := f.svc.Create(ctx, fuel("2025-06-10"))
	require.NoError(t, err)

	t.Run("same date", func(t *testing.T) {
		_, err := f.svc.Create(ctx, fuel("2025-06-10"))
		assert.ErrorIs(t, err, expense.ErrExpenseExists)
	})

	t.Run("readings going backwards", func(t *testing.T) {
		req := fuel("2025-06-11")
		req.FinalReading = 1000
		_, err := f.svc.Create(ctx, req)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "final_reading")
	})

	t.Run("for someone else", func(t *testing.T) {
		req := fuel("2025-06-12")
		req.EmployeeID = f.other
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}

func TestCreate_FeedsSalaryExpenses(t *testing.T) {
	f := newFixture(t)
	hr := f.as(f.director, user.RoleHR)
	created, err := f.salaries.Create(hr, salary.CreateSalaryRequest{
		EmployeeID: f.emp, Month: 6, Year: 2025,
		BasicSalary: decimal.NewFromInt(30000), PerHourSalary: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	require.True(t, created.Expenses.IsZero())

	_, err = f.svc.Create(f.as(f.emp, user.RoleEmployee), fuel("2025-06-10"))
	require.NoError(t, err)

	got, err := f.salaries.Get(hr, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Expenses.Equal(decimal.NewFromInt(220)), got.Expenses.String())
}

// ===== LIST TESTS =====

func TestList(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.as(f.emp, user.RoleEmployee), fuel("2025-06-10"))
	require.NoError(t, err)
	_, err = f.svc.Create(f.as(f.emp, user.RoleEmployee), fuel("2025-07-02"))
	require.NoError(t, err)
	_, err = f.svc.Create(f.as(f.other, user.RoleEmployee), fuel("2025-06-10"))
	require.NoError(t, err)

	t.Run("own expenses by month", func(t *testing.T) {
		list, err := f.svc.List(f.as(f.emp, user.RoleEmployee), expense.ListExpenseQuery{Month: 6, Year: 2025})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("month without year", func(t *testing.T) {
		_, err := f.svc.List(f.as(f.emp, user.RoleEmployee), expense.ListExpenseQuery{Month: 6})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("director sees own store", func(t *testing.T) {
		list, err := f.svc.List(f.as(f.director, user.RoleEmployee), expense.ListExpenseQuery{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, e := range list {
			assert.Equal(t, f.emp, e.EmployeeID)
		}
	})

	t.Run("director cannot read another store", func(t *testing.T) {
		_, err := f.svc.List(f.as(f.director, user.RoleEmployee), expense.ListExpenseQuery{EmployeeID: f.other})
		assert.ErrorIs(t, err, user.ErrForbidden)
	})
}
