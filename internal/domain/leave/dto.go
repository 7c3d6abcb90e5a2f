package leave

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID   string `json:"employee_id,omitempty"`
	StartDate    string `json:"start_date" validate:"required,date"`
	EndDate      string `json:"end_date" validate:"required,date"`
	StartHalfDay bool   `json:"start_half_day"`
	StartHalf    string `json:"start_half,omitempty" validate:"omitempty,oneof=first_half second_half"`
	EndHalfDay   bool   `json:"end_half_day"`
	EndHalf      string `json:"end_half,omitempty" validate:"omitempty,oneof=first_half second_half"`
	Reason       string `json:"reason" validate:"required,max=500"`
}

func (r *CreateLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	start, end := r.Dates()
	if end.Before(start) {
		errs.Add("end_date", "must not be before start_date")
	}
	multiDay := end.After(start)
	if r.StartHalfDay {
		if r.StartHalf == "" {
			errs.Add("start_half", "required when start_half_day is set")
		} else if multiDay && HalfPeriod(r.StartHalf) != SecondHalf {
			errs.Add("start_half", "a multi-day leave can only start with the second half")
		}
	}
	if r.EndHalfDay {
		if r.EndHalf == "" {
			errs.Add("end_half", "required when end_half_day is set")
		} else if multiDay && HalfPeriod(r.EndHalf) != FirstHalf {
			errs.Add("end_half", "a multi-day leave can only end with the first half")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed range. Unparseable dates come back as zero values.
func (r *CreateLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Remark   string `json:"remark,omitempty" validate:"max=500"`
}

func (r *DecisionRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type ListLeaveQuery struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Stage      string `json:"stage,omitempty" validate:"omitempty,oneof=coordinator manager approved rejected"`
}

func (q *ListLeaveQuery) Validate() error {
	if errs := validator.Struct(q); len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryResponse struct {
	Status    Status    `json:"status"`
	Stage     Stage     `json:"stage"`
	ActorID   string    `json:"actor_id"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaveResponse struct {
	ID                    string            `json:"id"`
	EmployeeID            string            `json:"employee_id"`
	StartDate             string            `json:"start_date"`
	EndDate               string            `json:"end_date"`
	StartHalfDay          bool              `json:"start_half_day"`
	StartHalf             *HalfPeriod       `json:"start_half,omitempty"`
	EndHalfDay            bool              `json:"end_half_day"`
	EndHalf               *HalfPeriod       `json:"end_half,omitempty"`
	Reason                string            `json:"reason"`
	Status                Status            `json:"status"`
	Stage                 Stage             `json:"stage"`
	EffectiveDays         float64           `json:"effective_days"`
	CoordinatorApproverID *string           `json:"coordinator_approver_id,omitempty"`
	CoordinatorApprovedAt *time.Time        `json:"coordinator_approved_at,omitempty"`
	ManagerApproverID     *string           `json:"manager_approver_id,omitempty"`
	ManagerApprovedAt     *time.Time        `json:"manager_approved_at,omitempty"`
	ReportingManagerID    *string           `json:"reporting_manager_id,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	History               []HistoryResponse `json:"history,omitempty"`
}

func ToResponse(l *Leave, history []History) LeaveResponse {
	resp := LeaveResponse{
		ID:                    l.ID,
		EmployeeID:            l.EmployeeID,
		StartDate:             dateutil.Key(l.StartDate),
		EndDate:               dateutil.Key(l.EndDate),
		StartHalfDay:          l.StartHalfDay,
		StartHalf:             l.StartHalf,
		EndHalfDay:            l.EndHalfDay,
		EndHalf:               l.EndHalf,
		Reason:                l.Reason,
		Status:                l.Status,
		Stage:                 l.Stage,
		EffectiveDays:         l.EffectiveDays,
		CoordinatorApproverID: l.CoordinatorApproverID,
		CoordinatorApprovedAt: l.CoordinatorApprovedAt,
		ManagerApproverID:     l.ManagerApproverID,
		ManagerApprovedAt:     l.ManagerApprovedAt,
		ReportingManagerID:    l.ReportingManagerID,
		CreatedAt:             l.CreatedAt,
	}
	for _, h := range history {
		resp.History = append(resp.History, HistoryResponse{
			Status:    h.Status,
			Stage:     h.Stage,
			ActorID:   h.ActorID,
			Remark:    h.Remark,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp
}
