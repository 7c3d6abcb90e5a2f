package compoff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
)

type CompOffServiceImpl struct {
	compoff.CompOffRepository
	employeeRepo employee.EmployeeRepository
	calendar     store.CalendarOracle
	gate         user.Gate
}

func NewCompOffService(
	compOffRepo compoff.CompOffRepository,
	employeeRepo employee.EmployeeRepository,
	calendar store.CalendarOracle,
	gate user.Gate,
) compoff.CompOffService {
	return &CompOffServiceImpl{
		CompOffRepository: compOffRepo,
		employeeRepo:      employeeRepo,
		calendar:          calendar,
		gate:              gate,
	}
}

func (s *CompOffServiceImpl) Accrue(ctx context.Context, emp *employee.Employee, att *attendance.Attendance) (*compoff.History, error) {
	if emp.StoreID == nil || att.InTime == nil || att.OutTime == nil {
		return nil, nil
	}

	cal, err := s.calendar.Calendar(ctx, *emp.StoreID)
	if err != nil {
		return nil, err
	}

	var reason string
	switch {
	case cal.IsHoliday(att.Date):
		reason = "holiday"
	case cal.IsWeeklyOff(att.Date):
		reason = "weekly off"
	default:
		return nil, nil
	}

	worked := att.WorkedHours()
	credit := compoff.Credit(worked, emp.ShiftHours(employee.DefaultShiftHours))

	if err := s.employeeRepo.AddCompOff(ctx, emp.ID, credit); err != nil {
		return nil, fmt.Errorf("failed to add comp-off: %w", err)
	}

	date := att.Date
	h := &compoff.History{
		EmployeeID:     emp.ID,
		Amount:         credit,
		Action:         compoff.ActionEarned,
		AttendanceDate: &date,
		Remark:         fmt.Sprintf("worked %.2fh on %s", worked, reason),
	}
	if err := s.CompOffRepository.CreateHistory(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to record comp-off history: %w", err)
	}

	slog.Info("comp-off earned", "employee_id", emp.ID, "date", att.Date.Format("2006-01-02"), "amount", credit)
	return h, nil
}

func (s *CompOffServiceImpl) ListHistory(ctx context.Context, employeeID string) ([]compoff.HistoryResponse, error) {
	identity := user.IdentityFromContext(ctx)
	if identity == nil {
		return nil, user.ErrUnauthorized
	}

	if employeeID == "" {
		employeeID = identity.EmployeeID
	}
	if employeeID != identity.EmployeeID {
		err := s.gate.CheckPermission(ctx, identity, user.ActionViewCompOff, user.CheckOptions{
			TargetEmployeeID: employeeID,
			StoreBound:       true,
		})
		if err != nil {
			return nil, err
		}
	}

	history, err := s.CompOffRepository.ListHistory(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comp-off history: %w", err)
	}

	out := make([]compoff.HistoryResponse, 0, len(history))
	for i := range history {
		out = append(out, compoff.ToResponse(&history[i]))
	}
	return out, nil
}
