package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
)

type OvertimeServiceImpl struct {
	db database.Transactor
	overtime.OvertimeRepository
	employeeRepo employee.EmployeeRepository
	salaries     salary.Recomputer
	gate         user.Gate
	stores       authz.StoreIDResolver
	notifier     notification.Sink
	now          func() time.Time
}

func NewOvertimeService(
	db database.Transactor,
	overtimeRepo overtime.OvertimeRepository,
	employeeRepo employee.EmployeeRepository,
	salaries salary.Recomputer,
	gate user.Gate,
	stores authz.StoreIDResolver,
	notifier notification.Sink,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		db:                 db,
		OvertimeRepository: overtimeRepo,
		employeeRepo:       employeeRepo,
		salaries:           salaries,
		gate:               gate,
		stores:             stores,
		notifier:           notifier,
		now:                time.Now,
	}
}

func (s *OvertimeServiceImpl) Create(ctx context.Context, req overtime.CreateOvertimeRequest) (*overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if req.EmployeeID == "" && identity != nil {
		req.EmployeeID = identity.EmployeeID
	}
	err := s.gate.CheckPermission(ctx, identity, user.ActionCreateOvertime, user.CheckOptions{TargetEmployeeID: req.EmployeeID})
	if err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	date, _ := validator.IsValidDate(req.Date)
	exists, err := s.OvertimeRepository.ExistsActive(ctx, req.EmployeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing overtime: %w", err)
	}
	if exists {
		return nil, overtime.ErrOvertimeExists
	}

	r := &overtime.Request{
		EmployeeID:     req.EmployeeID,
		Date:           date,
		RequestedHours: req.Hours,
		Remarks:        req.Remarks,
		Status:         overtime.StatusPending,
	}
	if err := s.OvertimeRepository.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create overtime request: %w", err)
	}

	slog.Info("overtime requested", "overtime_id", r.ID, "employee_id", r.EmployeeID, "date", dateutil.Key(r.Date), "hours", r.RequestedHours)
	resp := overtime.ToResponse(r)
	return &resp, nil
}

func (s *OvertimeServiceImpl) Decide(ctx context.Context, id string, req overtime.DecisionRequest) (*overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	r, err := s.OvertimeRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != overtime.StatusPending {
		return nil, overtime.ErrOvertimeAlreadyProcessed
	}
	if r.EmployeeID == identity.EmployeeID {
		return nil, fmt.Errorf("%w: %w", user.ErrForbidden, overtime.ErrSelfApproval)
	}

	emp, err := s.employeeRepo.GetByID(ctx, r.EmployeeID)
	if err != nil {
		return nil, err
	}
	isReportingManager := emp.ReportingManagerID != nil && *emp.ReportingManagerID == identity.EmployeeID
	if !isReportingManager {
		err := s.gate.CheckPermission(ctx, identity, user.ActionApproveOvertime, user.CheckOptions{
			TargetEmployeeID: r.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	r.Status = overtime.Status(req.Decision)
	r.ApproverID = &identity.EmployeeID
	r.ApprovedAt = &now
	if req.Remark != "" {
		r.DecisionRemark = &req.Remark
	}
	if r.Status == overtime.StatusApproved {
		hours := r.RequestedHours
		if req.ApprovedHours != nil {
			hours = *req.ApprovedHours
		}
		r.ApprovedHours = &hours
	}

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.OvertimeRepository.UpdateDecision(ctx, r); err != nil {
			return fmt.Errorf("failed to update overtime request: %w", err)
		}
		if r.Status != overtime.StatusApproved {
			return nil
		}
		return s.salaries.RecomputePeriod(ctx, r.EmployeeID, int(r.Date.Month()), r.Date.Year())
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:         notification.TypeOvertimeDecided,
		RecipientIDs: []string{r.EmployeeID},
		StoreID:      emp.StoreID,
		Title:        "Overtime " + string(r.Status),
		Message:      fmt.Sprintf("Your overtime request for %s was %s", dateutil.Key(r.Date), r.Status),
		Data: map[string]interface{}{
			"overtime_id": r.ID,
			"status":      r.Status,
		},
	})

	slog.Info("overtime decided", "overtime_id", r.ID, "approver_id", identity.EmployeeID, "status", r.Status)
	resp := overtime.ToResponse(r)
	return &resp, nil
}

func (s *OvertimeServiceImpl) List(ctx context.Context, query overtime.ListOvertimeQuery) ([]overtime.OvertimeResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	if query.EmployeeID == "" && !user.Permissions[user.ActionViewOvertime].Allows(identity.Role, identity.Profile) {
		query.EmployeeID = identity.EmployeeID
	}

	var filter overtime.ListFilter
	switch {
	case query.EmployeeID == identity.EmployeeID:
		filter.EmployeeID = &query.EmployeeID
	case query.EmployeeID != "":
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewOvertime, user.CheckOptions{
			TargetEmployeeID: query.EmployeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &query.EmployeeID
	default:
		if err := s.gate.CheckPermission(ctx, identity, user.ActionViewOvertime, user.CheckOptions{StoreBound: true}); err != nil {
			return nil, err
		}
		storeID, err := authz.ManagedStoreID(ctx, s.stores, identity, user.ActionViewOvertime)
		if err != nil {
			return nil, err
		}
		filter.StoreID = storeID
	}
	if query.Status != "" {
		status := overtime.Status(query.Status)
		filter.Status = &status
	}
	if query.Month != 0 {
		from, to := dateutil.MonthRange(query.Month, query.Year)
		filter.From, filter.To = &from, &to
	}

	requests, err := s.OvertimeRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	out := make([]overtime.OvertimeResponse, 0, len(requests))
	for i := range requests {
		out = append(out, overtime.ToResponse(&requests[i]))
	}
	return out, nil
}
