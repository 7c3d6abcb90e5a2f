package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
)

// Profiles allowed to decide at each approval stage, besides the admin role
// and, at the manager stage, the leave's reporting manager.
var (
	coordinatorStageProfiles = []user.Profile{user.ProfileCoordinator, user.ProfileStoreDirector, user.ProfileManagingDirector}
	managerStageProfiles     = []user.Profile{user.ProfileManager, user.ProfileManagingDirector}
)

type LeaveServiceImpl struct {
	db database.Transactor
	leave.LeaveRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	calendar       store.CalendarOracle
	gate           user.Gate
	stores         authz.StoreIDResolver
	notifier       notification.Sink
	now            func() time.Time
}

func NewLeaveService(
	db database.Transactor,
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	calendar store.CalendarOracle,
	gate user.Gate,
	stores authz.StoreIDResolver,
	notifier notification.Sink,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:              db,
		LeaveRepository: leaveRepo,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		calendar:        calendar,
		gate:            gate,
		stores:          stores,
		notifier:        notifier,
		now:             time.Now,
	}
}

func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (*leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity := user.IdentityFromContext(ctx)
	targetID := req.EmployeeID
	if targetID == "" && identity != nil {
		targetID = identity.EmployeeID
	}
	if err := s.gate.CheckPermission(ctx, identity, user.ActionCreateLeave, user.CheckOptions{TargetEmployeeID: targetID}); err != nil {
		return nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	start, end := req.Dates()
	l := &leave.Leave{
		EmployeeID:         emp.ID,
		StartDate:          start,
		EndDate:            end,
		StartHalfDay:       req.StartHalfDay,
		EndHalfDay:         req.EndHalfDay,
		Reason:             req.Reason,
		Status:             leave.StatusPending,
		Stage:              leave.StageCoordinator,
		ReportingManagerID: emp.ReportingManagerID,
	}
	if req.StartHalfDay {
		half := leave.HalfPeriod(req.StartHalf)
		l.StartHalf = &half
	}
	if req.EndHalfDay {
		half := leave.HalfPeriod(req.EndHalf)
		l.EndHalf = &half
	}

	cal, err := s.calendar.Calendar(ctx, storeID(emp))
	if err != nil {
		return nil, err
	}
	l.EffectiveDays = l.CalculateEffectiveDays(cal)
	if l.EffectiveDays == 0 {
		return nil, leave.ErrNoWorkingDays
	}

	remark := "Leave submitted"
	if emp.Profile == user.ProfileCoordinator {
		now := s.now()
		l.Stage = leave.StageManager
		l.CoordinatorApproverID = &emp.ID
		l.CoordinatorApprovedAt = &now
		remark = "Leave submitted by coordinator; coordinator approval recorded"
	}

	var history []leave.History
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		// The employee row lock orders concurrent submissions for one employee.
		locked, err := s.employeeRepo.GetForUpdate(ctx, emp.ID)
		if err != nil {
			return err
		}
		overlap, err := s.LeaveRepository.HasOverlap(ctx, emp.ID, start, end, []leave.Status{leave.StatusRejected})
		if err != nil {
			return fmt.Errorf("failed to check overlapping leaves: %w", err)
		}
		if overlap {
			return leave.ErrLeaveOverlap
		}
		if l.EffectiveDays > locked.LeaveDays {
			return leave.ErrInsufficientLeaveBalance
		}

		if err := s.LeaveRepository.Create(ctx, l); err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		h, err := s.appendHistory(ctx, l, identity.EmployeeID, remark)
		if err != nil {
			return err
		}
		history = append(history, *h)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var recipients []string
	if l.ReportingManagerID != nil {
		recipients = append(recipients, *l.ReportingManagerID)
	}
	s.notifier.Notify(ctx, notification.Event{
		Type:         notification.TypeLeaveSubmitted,
		RecipientIDs: recipients,
		StoreID:      emp.StoreID,
		Title:        "Leave request submitted",
		Message:      fmt.Sprintf("%s requested %.1f day(s) of leave from %s to %s", emp.Name, l.EffectiveDays, dateutil.Key(start), dateutil.Key(end)),
		Data: map[string]interface{}{
			"leave_id":    l.ID,
			"employee_id": emp.ID,
			"stage":       l.Stage,
		},
	})

	slog.Info("leave submitted", "leave_id", l.ID, "employee_id", emp.ID, "effective_days", l.EffectiveDays, "stage", l.Stage)
	resp := leave.ToResponse(l, history)
	return &resp, nil
}

func (s *LeaveServiceImpl) Decide(ctx context.Context, id string, req leave.DecisionRequest) (*leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsPending() {
		return nil, leave.ErrLeaveAlreadyProcessed
	}
	if l.EmployeeID == identity.EmployeeID {
		return nil, fmt.Errorf("%w: %w", user.ErrForbidden, leave.ErrSelfApproval)
	}
	if err := s.checkStageApprover(ctx, identity, l); err != nil {
		return nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, l.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	approverID := identity.EmployeeID
	decision := leave.Status(req.Decision)
	from := l.Stage
	switch l.Stage {
	case leave.StageCoordinator:
		l.CoordinatorApproverID = &approverID
		l.CoordinatorApprovedAt = &now
		switch {
		case decision == leave.StatusRejected:
			l.Status, l.Stage = leave.StatusRejected, leave.StageRejected
		case emp.Profile == user.ProfileCoordinator:
			l.Status, l.Stage = leave.StatusApproved, leave.StageApproved
		default:
			l.Stage = leave.StageManager
		}
	case leave.StageManager:
		l.ManagerApproverID = &approverID
		l.ManagerApprovedAt = &now
		l.Status, l.Stage = decision, leave.Stage(decision)
	default:
		return nil, leave.ErrLeaveAlreadyProcessed
	}

	remark := req.Remark
	if remark == "" {
		remark = defaultRemark(l)
	}

	var history []leave.History
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LeaveRepository.UpdateStage(ctx, l, from); err != nil {
			return fmt.Errorf("failed to update leave: %w", err)
		}
		if _, err := s.appendHistory(ctx, l, approverID, remark); err != nil {
			return err
		}
		if l.Status == leave.StatusApproved {
			if err := s.finalize(ctx, emp, l); err != nil {
				return err
			}
		}
		history, err = s.LeaveRepository.ListHistory(ctx, l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:         notification.TypeLeaveDecided,
		RecipientIDs: []string{l.EmployeeID},
		Title:        "Leave request updated",
		Message:      remark,
		Data: map[string]interface{}{
			"leave_id": l.ID,
			"status":   l.Status,
			"stage":    l.Stage,
		},
	})

	slog.Info("leave decided", "leave_id", l.ID, "approver_id", approverID, "status", l.Status, "stage", l.Stage)
	resp := leave.ToResponse(l, history)
	return &resp, nil
}

// finalize applies an approved leave: the balance is charged and attendance
// is backfilled for every working, full leave day.
func (s *LeaveServiceImpl) finalize(ctx context.Context, emp *employee.Employee, l *leave.Leave) error {
	if err := s.employeeRepo.DecrementLeaveDays(ctx, emp.ID, l.EffectiveDays); err != nil {
		if errors.Is(err, employee.ErrInsufficientLeaveBalance) {
			return leave.ErrInsufficientLeaveBalance
		}
		return fmt.Errorf("failed to decrement leave balance: %w", err)
	}

	cal, err := s.calendar.Calendar(ctx, storeID(emp))
	if err != nil {
		return err
	}
	if dates := l.LeaveDates(cal); len(dates) > 0 {
		if err := s.attendanceRepo.UpsertStatus(ctx, emp.ID, dates, attendance.StatusLeave); err != nil {
			return fmt.Errorf("failed to backfill leave attendance: %w", err)
		}
	}
	return nil
}

func (s *LeaveServiceImpl) checkStageApprover(ctx context.Context, identity *user.Identity, l *leave.Leave) error {
	isAdmin := identity.Role == user.RoleAdmin
	switch l.Stage {
	case leave.StageCoordinator:
		if !isAdmin && !slices.Contains(coordinatorStageProfiles, identity.Profile) {
			return fmt.Errorf("%w: %w", user.ErrForbidden, leave.ErrStageApproverRequired)
		}
	case leave.StageManager:
		if l.ReportingManagerID != nil && *l.ReportingManagerID == identity.EmployeeID {
			return nil
		}
		if !isAdmin && !slices.Contains(managerStageProfiles, identity.Profile) {
			return fmt.Errorf("%w: %w", user.ErrForbidden, leave.ErrStageApproverRequired)
		}
	}
	return s.gate.CheckPermission(ctx, identity, user.ActionApproveLeave, user.CheckOptions{
		TargetEmployeeID: l.EmployeeID,
		StoreBound:       true,
	})
}

func (s *LeaveServiceImpl) Withdraw(ctx context.Context, id string) error {
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return user.ErrUnauthorized
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.CheckPermission(ctx, identity, user.ActionWithdrawLeave, user.CheckOptions{TargetEmployeeID: l.EmployeeID}); err != nil {
		return err
	}
	if !l.IsPending() {
		return leave.ErrLeaveNotPending
	}

	var reverted int64
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LeaveRepository.DeleteHistory(ctx, l.ID); err != nil {
			return fmt.Errorf("failed to delete leave history: %w", err)
		}
		if err := s.LeaveRepository.DeletePending(ctx, l.ID); err != nil {
			return fmt.Errorf("failed to delete leave: %w", err)
		}
		reverted, err = s.attendanceRepo.ReplaceStatus(ctx, l.EmployeeID, l.StartDate, l.EndDate, attendance.StatusLeave, attendance.StatusAbsent)
		if err != nil {
			return fmt.Errorf("failed to revert leave attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("leave withdrawn", "leave_id", l.ID, "employee_id", l.EmployeeID, "attendance_reverted", reverted)
	return nil
}

func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (*leave.LeaveResponse, error) {
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := l.EmployeeID == identity.EmployeeID
	isManager := l.ReportingManagerID != nil && *l.ReportingManagerID == identity.EmployeeID
	if !isOwner && !isManager {
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewLeaves, user.CheckOptions{
			TargetEmployeeID: l.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
	}

	history, err := s.LeaveRepository.ListHistory(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave history: %w", err)
	}
	resp := leave.ToResponse(l, history)
	return &resp, nil
}

func (s *LeaveServiceImpl) List(ctx context.Context, query leave.ListLeaveQuery) ([]leave.LeaveResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	if query.EmployeeID == "" && !user.Permissions[user.ActionViewLeaves].Allows(identity.Role, identity.Profile) {
		query.EmployeeID = identity.EmployeeID
	}

	var filter leave.ListFilter
	if query.Status != "" {
		status := leave.Status(query.Status)
		filter.Status = &status
	}
	if query.Stage != "" {
		stage := leave.Stage(query.Stage)
		filter.Stage = &stage
	}

	switch {
	case query.EmployeeID == identity.EmployeeID:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewOwnLeaves, user.CheckOptions{TargetEmployeeID: identity.EmployeeID}); err != nil {
			return nil, err
		}
		filter.EmployeeID = &query.EmployeeID
	case query.EmployeeID != "":
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewLeaves, user.CheckOptions{
			TargetEmployeeID: query.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &query.EmployeeID
	default:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewLeaves, user.CheckOptions{StoreBound: true}); err != nil {
			return nil, err
		}
		storeID, err := authz.ManagedStoreID(ctx, s.stores, identity, user.ActionViewLeaves)
		if err != nil {
			return nil, err
		}
		filter.StoreID = storeID
	}

	leaves, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	out := make([]leave.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, leave.ToResponse(&leaves[i], nil))
	}
	return out, nil
}

func (s *LeaveServiceImpl) appendHistory(ctx context.Context, l *leave.Leave, actorID, remark string) (*leave.History, error) {
	h := &leave.History{
		LeaveID: l.ID,
		Status:  l.Status,
		Stage:   l.Stage,
		ActorID: actorID,
		Remark:  remark,
	}
	if err := s.LeaveRepository.CreateHistory(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to record leave history: %w", err)
	}
	return h, nil
}

func defaultRemark(l *leave.Leave) string {
	switch {
	case l.Status == leave.StatusRejected:
		return "Leave rejected"
	case l.Status == leave.StatusApproved:
		return "Leave approved"
	default:
		return "Approved by coordinator; awaiting manager approval"
	}
}

func storeID(e *employee.Employee) string {
	if e.StoreID == nil {
		return ""
	}
	return *e.StoreID
}
