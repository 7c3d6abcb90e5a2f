package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	"github.com/shopspring/decimal"
)

type ExpenseServiceImpl struct {
	db database.Transactor
	expense.ExpenseRepository
	employeeRepo employee.EmployeeRepository
	salaries     salary.Recomputer
	gate         user.Gate
	stores       authz.StoreIDResolver
}

func NewExpenseService(
	db database.Transactor,
	expenseRepo expense.ExpenseRepository,
	employeeRepo employee.EmployeeRepository,
	salaries salary.Recomputer,
	gate user.Gate,
	stores authz.StoreIDResolver,
) expense.ExpenseService {
	return &ExpenseServiceImpl{
		db:                db,
		ExpenseRepository: expenseRepo,
		employeeRepo:      employeeRepo,
		salaries:          salaries,
		gate:              gate,
		stores:            stores,
	}
}

// Create records the expense and refreshes the salary of its period, if any.
func (s *ExpenseServiceImpl) Create(ctx context.Context, req expense.CreateExpenseRequest) (*expense.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if req.EmployeeID == "" && identity != nil {
		req.EmployeeID = identity.EmployeeID
	}
	err := s.gate.CheckPermission(ctx, identity, user.ActionSubmitExpense, user.CheckOptions{TargetEmployeeID: req.EmployeeID})
	if err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	date, _ := validator.IsValidDate(req.Date)
	e := &expense.Expense{
		EmployeeID:     req.EmployeeID,
		Date:           date,
		InitialReading: req.InitialReading,
		FinalReading:   req.FinalReading,
		Rate:           req.Rate,
		Remarks:        req.Remarks,
	}
	if req.MiscellaneousExpense != nil {
		e.MiscellaneousExpense = *req.MiscellaneousExpense
	} else {
		e.MiscellaneousExpense = decimal.Zero
	}
	e.Compute()

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ExpenseRepository.Create(ctx, e); err != nil {
			if errors.Is(err, expense.ErrExpenseExists) {
				return err
			}
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return s.salaries.RecomputePeriod(ctx, e.EmployeeID, int(e.Date.Month()), e.Date.Year())
	})
	if err != nil {
		return nil, err
	}

	slog.Info("expense recorded", "expense_id", e.ID, "employee_id", e.EmployeeID, "date", dateutil.Key(e.Date), "total", e.Total().String())
	resp := expense.ToResponse(e)
	return &resp, nil
}

func (s *ExpenseServiceImpl) List(ctx context.Context, query expense.ListExpenseQuery) ([]expense.ExpenseResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	if query.EmployeeID == "" && !user.Permissions[user.ActionViewExpenses].Allows(identity.Role, identity.Profile) {
		query.EmployeeID = identity.EmployeeID
	}

	var filter expense.ListFilter
	switch {
	case query.EmployeeID == identity.EmployeeID:
		filter.EmployeeID = &query.EmployeeID
	case query.EmployeeID != "":
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewExpenses, user.CheckOptions{
			TargetEmployeeID: query.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &query.EmployeeID
	default:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewExpenses, user.CheckOptions{StoreBound: true}); err != nil {
			return nil, err
		}
		storeID, err := authz.ManagedStoreID(ctx, s.stores, identity, user.ActionViewExpenses)
		if err != nil {
			return nil, err
		}
		filter.StoreID = storeID
	}
	if query.Month != 0 {
		from, to := dateutil.MonthRange(query.Month, query.Year)
		filter.From, filter.To = &from, &to
	}

	expenses, err := s.ExpenseRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	out := make([]expense.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, expense.ToResponse(&expenses[i]))
	}
	return out, nil
}
