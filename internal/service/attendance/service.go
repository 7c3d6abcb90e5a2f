package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
)

// BulkOptions tunes the bulk non-working-day run.
type BulkOptions struct {
	BatchSize       int
	MaxAttempts     int
	InitialInterval time.Duration
}

func DefaultBulkOptions() BulkOptions {
	return BulkOptions{
		BatchSize:       100,
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
	}
}

type AttendanceServiceImpl struct {
	db database.Transactor
	attendance.AttendanceRepository
	employeeRepo employee.EmployeeRepository
	storeRepo    store.StoreRepository
	calendar     store.CalendarOracle
	compOff      compoff.CompOffService
	gate         user.Gate
	stores       authz.StoreIDResolver
	notifier     notification.Sink
	loc          *time.Location
	bulk         BulkOptions
	now          func() time.Time
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	storeRepo store.StoreRepository,
	calendar store.CalendarOracle,
	compOffService compoff.CompOffService,
	gate user.Gate,
	stores authz.StoreIDResolver,
	notifier notification.Sink,
	loc *time.Location,
	bulk BulkOptions,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	if bulk.BatchSize <= 0 {
		bulk.BatchSize = DefaultBulkOptions().BatchSize
	}
	if bulk.MaxAttempts <= 0 {
		bulk.MaxAttempts = DefaultBulkOptions().MaxAttempts
	}
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		storeRepo:            storeRepo,
		calendar:             calendar,
		compOff:              compOffService,
		gate:                 gate,
		stores:               stores,
		notifier:             notifier,
		loc:                  loc,
		bulk:                 bulk,
		now:                  time.Now,
	}
}

// punchContext is what both punches need to know about the employee.
type punchContext struct {
	employee  *employee.Employee
	store     *store.Store
	date      time.Time
	now       time.Time
	expectIn  *time.Time
	expectOut *time.Time
}

func (s *AttendanceServiceImpl) preparePunch(ctx context.Context, req attendance.PunchRequest) (*punchContext, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity := user.IdentityFromContext(ctx)
	targetID := req.EmployeeID
	if targetID == "" && identity != nil {
		targetID = identity.EmployeeID
	}
	if err := s.gate.CheckPermission(ctx, identity, user.ActionMarkAttendance, user.CheckOptions{TargetEmployeeID: targetID}); err != nil {
		return nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	pc := &punchContext{
		employee:  emp,
		date:      dateutil.DateIn(now, s.loc),
		now:       now,
		expectIn:  emp.ExpectedInTime,
		expectOut: emp.ExpectedOutTime,
	}
	if req.Date != "" {
		pc.date, _ = validator.IsValidDate(req.Date)
	}

	if emp.StoreID != nil {
		st, err := s.storeRepo.GetByID(ctx, *emp.StoreID)
		if err != nil && !errors.Is(err, store.ErrStoreNotFound) {
			return nil, fmt.Errorf("failed to get store: %w", err)
		}
		pc.store = st
	}
	if pc.store != nil {
		if pc.expectIn == nil {
			pc.expectIn = pc.store.ExpectedInTime
		}
		if pc.expectOut == nil {
			pc.expectOut = pc.store.ExpectedOutTime
		}
	}
	return pc, nil
}

// expected returns today's wall-clock instant of clock, shifted by minutes.
func (s *AttendanceServiceImpl) expected(pc *punchContext, clock time.Time, minutes int) time.Time {
	today := dateutil.DateIn(pc.now, s.loc)
	return dateutil.At(today, clock, s.loc).Add(time.Duration(minutes) * time.Minute)
}

func (pc *punchContext) thresholds() (late, early int) {
	if pc.store == nil {
		return 0, 0
	}
	return pc.store.LateEntryThreshold, pc.store.EarlyExitThreshold
}

func (s *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (*attendance.AttendanceResponse, error) {
	pc, err := s.preparePunch(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, pc.employee.ID, pc.date)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing != nil && existing.InTime != nil {
		return nil, attendance.ErrAlreadyPunchedIn
	}

	lateThreshold, _ := pc.thresholds()
	isLate := pc.expectIn != nil && pc.now.After(s.expected(pc, *pc.expectIn, lateThreshold))

	now := pc.now
	if existing != nil {
		existing.InTime = &now
		existing.Status = attendance.StatusPresent
		existing.IsLateEntry = isLate
		if err := s.AttendanceRepository.RecordPunchIn(ctx, existing); err != nil {
			if errors.Is(err, attendance.ErrAlreadyPunchedIn) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update attendance: %w", err)
		}
	} else {
		existing = &attendance.Attendance{
			EmployeeID:  pc.employee.ID,
			Date:        pc.date,
			Status:      attendance.StatusPresent,
			InTime:      &now,
			IsLateEntry: isLate,
		}
		if err := s.AttendanceRepository.Create(ctx, existing); err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return nil, attendance.ErrAlreadyPunchedIn
			}
			return nil, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	slog.Info("punched in", "employee_id", pc.employee.ID, "date", dateutil.Key(pc.date), "late", isLate)
	resp := attendance.ToResponse(existing)
	return &resp, nil
}

func (s *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (*attendance.AttendanceResponse, error) {
	pc, err := s.preparePunch(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		record *attendance.Attendance
		earned *compoff.History
	)
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, pc.employee.ID, pc.date)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrNotPunchedIn
		}
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if a.InTime == nil {
			return attendance.ErrNotPunchedIn
		}
		if a.OutTime != nil {
			return attendance.ErrAlreadyPunchedOut
		}

		_, earlyThreshold := pc.thresholds()
		now := pc.now
		a.OutTime = &now
		a.IsEarlyExit = pc.expectOut != nil && pc.now.Before(s.expected(pc, *pc.expectOut, -earlyThreshold))
		if err := s.AttendanceRepository.RecordPunchOut(ctx, a); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		earned, err = s.compOff.Accrue(ctx, pc.employee, a)
		if err != nil {
			return fmt.Errorf("failed to accrue comp-off: %w", err)
		}
		record = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if earned != nil {
		s.notifier.Notify(ctx, notification.Event{
			Type:         notification.TypeCompOffEarned,
			RecipientIDs: []string{pc.employee.ID},
			Title:        "Comp-off earned",
			Message:      fmt.Sprintf("You earned %.1f comp-off day(s) for %s", earned.Amount, dateutil.Key(record.Date)),
			Data: map[string]interface{}{
				"amount": earned.Amount,
				"date":   dateutil.Key(record.Date),
			},
		})
	}

	slog.Info("punched out", "employee_id", pc.employee.ID, "date", dateutil.Key(pc.date), "early", record.IsEarlyExit)
	resp := attendance.ToResponse(record)
	return &resp, nil
}

func (s *AttendanceServiceImpl) List(ctx context.Context, query attendance.ListAttendanceQuery) ([]attendance.AttendanceResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	if query.EmployeeID == "" && !user.Permissions[user.ActionViewAttendance].Allows(identity.Role, identity.Profile) {
		query.EmployeeID = identity.EmployeeID
	}

	var employeeIDs []string
	switch {
	case query.EmployeeID == identity.EmployeeID:
		employeeIDs = []string{identity.EmployeeID}
	case query.EmployeeID != "":
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewAttendance, user.CheckOptions{
			TargetEmployeeID: query.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
		if _, err := s.employeeRepo.GetByID(ctx, query.EmployeeID); err != nil {
			return nil, err
		}
		employeeIDs = []string{query.EmployeeID}
	default:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewAttendance, user.CheckOptions{StoreBound: true}); err != nil {
			return nil, err
		}
		storeID, err := authz.ManagedStoreID(ctx, s.stores, identity, user.ActionViewAttendance)
		if err != nil {
			return nil, err
		}
		employees, err := s.employeeRepo.List(ctx, employee.ListFilter{StoreID: storeID})
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		for _, e := range employees {
			employeeIDs = append(employeeIDs, e.ID)
		}
	}
	if len(employeeIDs) == 0 {
		return []attendance.AttendanceResponse{}, nil
	}

	start, _ := validator.IsValidDate(query.StartDate)
	end, _ := validator.IsValidDate(query.EndDate)
	rows, err := s.AttendanceRepository.ListByEmployees(ctx, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byKey := make(map[string]*attendance.Attendance, len(rows))
	for i := range rows {
		byKey[rows[i].EmployeeID+"|"+dateutil.Key(rows[i].Date)] = &rows[i]
	}

	days := dateutil.Days(start, end)
	out := make([]attendance.AttendanceResponse, 0, len(days)*len(employeeIDs))
	for _, id := range employeeIDs {
		for _, d := range days {
			if a, ok := byKey[id+"|"+dateutil.Key(d)]; ok {
				out = append(out, attendance.ToResponse(a))
				continue
			}
			out = append(out, attendance.AttendanceResponse{
				EmployeeID:  id,
				Date:        dateutil.Key(d),
				Status:      attendance.StatusAbsent,
				Synthesized: true,
			})
		}
	}
	return out, nil
}

func (s *AttendanceServiceImpl) MarkNonWorkingDay(ctx context.Context, req attendance.MarkNonWorkingDayRequest) (*attendance.BulkMarkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.gate.CheckPermission(ctx, user.IdentityFromContext(ctx), user.ActionMarkNonWorkingDay, user.CheckOptions{}); err != nil {
		return nil, err
	}
	date, _ := validator.IsValidDate(req.Date)
	return s.BulkMarkNonWorkingDay(ctx, date, attendance.NonWorkingKind(req.Kind))
}
