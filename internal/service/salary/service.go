package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
)

type SalaryServiceImpl struct {
	db database.Transactor
	salary.SalaryRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	overtimeRepo   overtime.OvertimeRepository
	expenseRepo    expense.ExpenseRepository
	gate           user.Gate
	stores         authz.StoreIDResolver
}

// NewSalaryService returns the concrete service; it serves both
// salary.SalaryService and salary.Recomputer.
func NewSalaryService(
	db database.Transactor,
	salaryRepo salary.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	overtimeRepo overtime.OvertimeRepository,
	expenseRepo expense.ExpenseRepository,
	gate user.Gate,
	stores authz.StoreIDResolver,
) *SalaryServiceImpl {
	return &SalaryServiceImpl{
		db:               db,
		SalaryRepository: salaryRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		leaveRepo:        leaveRepo,
		overtimeRepo:     overtimeRepo,
		expenseRepo:      expenseRepo,
		gate:             gate,
		stores:           stores,
	}
}

func (s *SalaryServiceImpl) Create(ctx context.Context, req salary.CreateSalaryRequest) (*salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	err := s.gate.CheckPermission(ctx, identity, user.ActionManageSalaries, user.CheckOptions{TargetEmployeeID: req.EmployeeID})
	if err != nil {
		return nil, err
	}

	in := req.Input()
	sal := &salary.Salary{
		EmployeeID:     req.EmployeeID,
		Month:          req.Month,
		Year:           req.Year,
		BasicSalary:    in.BasicSalary,
		PerHourSalary:  in.PerHourSalary,
		OvertimeRate:   in.OvertimeRate,
		Bonus:          in.Bonus,
		DeductionHours: in.DeductionHours,
		DeductionDays:  in.DeductionDays,
		OvertimeHours:  in.OvertimeHours,
		CreatedBy:      &identity.EmployeeID,
	}

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.compute(ctx, sal); err != nil {
			return err
		}
		if err := s.SalaryRepository.Create(ctx, sal); err != nil {
			if errors.Is(err, salary.ErrSalaryExists) {
				return err
			}
			return fmt.Errorf("failed to create salary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("salary created", "salary_id", sal.ID, "employee_id", sal.EmployeeID, "month", sal.Month, "year", sal.Year, "net_salary", sal.NetSalary.String())
	resp := salary.ToResponse(sal)
	return &resp, nil
}

func (s *SalaryServiceImpl) Update(ctx context.Context, id string, req salary.UpdateSalaryRequest) (*salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(sal *salary.Salary) { req.ApplyTo(sal) })
}

// Recompute re-derives every output of the salary from current period data.
func (s *SalaryServiceImpl) Recompute(ctx context.Context, id string) (*salary.SalaryResponse, error) {
	return s.mutate(ctx, id, func(*salary.Salary) {})
}

func (s *SalaryServiceImpl) mutate(ctx context.Context, id string, apply func(*salary.Salary)) (*salary.SalaryResponse, error) {
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}
	sal, err := s.SalaryRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.gate.CheckPermission(ctx, identity, user.ActionManageSalaries, user.CheckOptions{TargetEmployeeID: sal.EmployeeID})
	if err != nil {
		return nil, err
	}

	apply(sal)
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.compute(ctx, sal); err != nil {
			return err
		}
		if err := s.SalaryRepository.Update(ctx, sal); err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("salary recomputed", "salary_id", sal.ID, "employee_id", sal.EmployeeID, "net_salary", sal.NetSalary.String())
	resp := salary.ToResponse(sal)
	return &resp, nil
}

// RecomputePeriod joins the caller's transaction. A period without a salary
// row is left alone.
func (s *SalaryServiceImpl) RecomputePeriod(ctx context.Context, employeeID string, month, year int) error {
	sal, err := s.SalaryRepository.GetByPeriod(ctx, employeeID, month, year)
	if errors.Is(err, salary.ErrSalaryNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load salary: %w", err)
	}
	if err := s.compute(ctx, sal); err != nil {
		return err
	}
	if err := s.SalaryRepository.Update(ctx, sal); err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}
	slog.Info("salary recomputed for period", "salary_id", sal.ID, "employee_id", employeeID, "month", month, "year", year)
	return nil
}

func (s *SalaryServiceImpl) compute(ctx context.Context, sal *salary.Salary) error {
	emp, err := s.employeeRepo.GetByID(ctx, sal.EmployeeID)
	if err != nil {
		return err
	}
	data, err := s.periodData(ctx, emp, sal.Month, sal.Year)
	if err != nil {
		return err
	}
	sal.Apply(salary.Calculate(sal.Input(), *data))
	return nil
}

func (s *SalaryServiceImpl) periodData(ctx context.Context, emp *employee.Employee, month, year int) (*salary.PeriodData, error) {
	from, to := dateutil.MonthRange(month, year)

	rows, err := s.attendanceRepo.ListByEmployees(ctx, []string{emp.ID}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	leaves, err := s.leaveRepo.ListApproved(ctx, emp.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved leaves: %w", err)
	}
	var leaveDates []time.Time
	for i := range leaves {
		for _, d := range leaves[i].FullDayDates() {
			if !d.Before(from) && !d.After(to) {
				leaveDates = append(leaveDates, d)
			}
		}
	}

	overtimeHours, err := s.overtimeRepo.SumApprovedHours(ctx, emp.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved overtime: %w", err)
	}

	expenses, err := s.expenseRepo.SumForPeriod(ctx, emp.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return &salary.PeriodData{
		Month:                 month,
		Year:                  year,
		ExpectedDailyHours:    emp.ShiftHours(employee.DefaultDailyHours),
		Attendance:            rows,
		LeaveDates:            salary.LeaveDateSet(leaveDates),
		ApprovedOvertimeHours: overtimeHours,
		Expenses:              expenses,
	}, nil
}

func (s *SalaryServiceImpl) Get(ctx context.Context, id string) (*salary.SalaryResponse, error) {
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}
	sal, err := s.SalaryRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sal.EmployeeID == identity.EmployeeID {
		// Unpublished salaries are invisible to their owner unless the owner may view salaries anyway.
		if !sal.IsPublished && !user.Permissions[user.ActionViewSalaries].Allows(identity.Role, identity.Profile) {
			return nil, salary.ErrSalaryNotFound
		}
	} else {
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewSalaries, user.CheckOptions{
			TargetEmployeeID: sal.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
	}

	resp := salary.ToResponse(sal)
	return &resp, nil
}

func (s *SalaryServiceImpl) List(ctx context.Context, query salary.ListSalaryQuery) ([]salary.SalaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	canView := user.Permissions[user.ActionViewSalaries].Allows(identity.Role, identity.Profile)
	if query.EmployeeID == "" && !canView {
		query.EmployeeID = identity.EmployeeID
	}

	var filter salary.ListFilter
	switch {
	case query.EmployeeID == identity.EmployeeID:
		filter.EmployeeID = &query.EmployeeID
		filter.PublishedOnly = !canView
	case query.EmployeeID != "":
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewSalaries, user.CheckOptions{
			TargetEmployeeID: query.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &query.EmployeeID
	default:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewSalaries, user.CheckOptions{StoreBound: true}); err != nil {
			return nil, err
		}
		storeID, err := authz.ManagedStoreID(ctx, s.stores, identity, user.ActionViewSalaries)
		if err != nil {
			return nil, err
		}
		filter.StoreID = storeID
	}
	if query.Month != 0 {
		filter.Month = &query.Month
	}
	if query.Year != 0 {
		filter.Year = &query.Year
	}

	salaries, err := s.SalaryRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	out := make([]salary.SalaryResponse, 0, len(salaries))
	for i := range salaries {
		out = append(out, salary.ToResponse(&salaries[i]))
	}
	return out, nil
}
